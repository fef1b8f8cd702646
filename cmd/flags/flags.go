package flags

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	gwcommon "github.com/lastweeknextday/review-gateway/common"
	"github.com/lastweeknextday/review-gateway/httpserver"
)

func SetupLogger(cCtx *cli.Context) (log *slog.Logger) {
	logJSON := cCtx.Bool(LogJsonFlag.Name)
	logDebug := cCtx.Bool(LogDebugFlag.Name)
	logUID := cCtx.Bool(LogUidFlag.Name)
	logService := cCtx.String("log-service")
	logDir := cCtx.String(LogDirFlag.Name)

	logger := gwcommon.SetupLogger(&gwcommon.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: logService,
		Version: gwcommon.Version,
		LogDir:  logDir,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

func ConfigureServer(cCtx *cli.Context, logger *slog.Logger, listenAddr string) *httpserver.HTTPServerConfig {
	metricsAddr := cCtx.String(MetricsAddrFlag.Name)
	enablePprof := cCtx.Bool(PprofFlag.Name)
	drainDuration := time.Duration(cCtx.Int64(DrainSecondsFlag.Name)) * time.Second

	return &httpserver.HTTPServerConfig{
		ListenAddr:               listenAddr,
		MetricsAddr:              metricsAddr,
		Log:                      logger,
		EnablePprof:              enablePprof,
		CORSOrigins:              cCtx.StringSlice(CORSOriginsFlag.Name),
		DrainDuration:            drainDuration,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              60 * time.Second,
		WriteTimeout:             30 * time.Second,
	}
}

// ParseAddress parses a 0x-prefixed or bare 40-char hex Ethereum address.
func ParseAddress(flagName, v string) (common.Address, error) {
	if !common.IsHexAddress(v) {
		return common.Address{}, fmt.Errorf("--%s: invalid address %q", flagName, v)
	}
	return common.HexToAddress(v), nil
}

var Web3EndpointFlag = &cli.StringFlag{
	Name:    "web3-endpoint",
	Value:   "http://127.0.0.1:8545",
	Usage:   "Ethereum JSON-RPC endpoint (http, ws or ipc)",
	EnvVars: []string{"WEB3_ENDPOINT"},
}

var ContractAddressFlag = &cli.StringFlag{
	Name:     "contract-address",
	Required: true,
	Usage:    "address of the review contract",
	EnvVars:  []string{"CONTRACT_ADDRESS"},
}

var ContractABIFlag = &cli.StringFlag{
	Name:    "contract-abi",
	Usage:   "review contract ABI as inline JSON or a path to a JSON file; the bundled ABI is used when empty",
	EnvVars: []string{"CONTRACT_ABI"},
}

var GatewayAddrFlag = &cli.StringFlag{
	Name:    "gateway-addr",
	Value:   "http://127.0.0.1:8080",
	Usage:   "review gateway base URL",
	EnvVars: []string{"GATEWAY_ADDR"},
}

var InitiatorFlag = &cli.StringFlag{
	Name:    "initiator",
	Usage:   "editor address the request is made on behalf of",
	EnvVars: []string{"INITIATOR"},
}

var CORSOriginsFlag = &cli.StringSliceFlag{
	Name:    "cors-origin",
	Usage:   "origin allowed to call the API from a browser (repeatable); any origin when unset",
	EnvVars: []string{"CORS_ORIGINS"},
}

var LogJsonFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var LogUidFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}
var LogDirFlag = &cli.StringFlag{
	Name:    "log-dir",
	Usage:   "also write logs to a per-run file in this directory",
	EnvVars: []string{"LOG_DIR"},
}

var LogServiceFlagFn = func(service string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "log-service",
		Value: service,
		Usage: "add 'service' tag to logs",
	}
}

var PprofFlag = &cli.BoolFlag{
	Name:  "pprof",
	Value: false,
	Usage: "enable pprof debug endpoint",
}
var DrainSecondsFlag = &cli.Int64Flag{
	Name:  "drain-seconds",
	Value: 45,
	Usage: "seconds to wait in drain HTTP request",
}
var MetricsAddrFlag = &cli.StringFlag{
	Name:  "metrics-addr",
	Value: "127.0.0.1:8090",
	Usage: "address to listen on for Prometheus metrics",
}

var CommonFlags = []cli.Flag{
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
	LogDirFlag,
	PprofFlag,
	DrainSecondsFlag,
	MetricsAddrFlag,
}
