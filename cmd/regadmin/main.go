package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/lastweeknextday/review-gateway/api/clients"
	"github.com/lastweeknextday/review-gateway/cmd/flags"
)

var flagOrigin = &cli.StringFlag{
	Name:  "origin",
	Usage: "send requests as this website, e.g. https://shop.example.com",
}

var flagProposedItemName = &cli.StringFlag{
	Name:     "proposed-item-name",
	Required: true,
	Usage:    "item name used by the requesting domain",
}

var flagDomain = &cli.StringFlag{
	Name:     "domain",
	Required: true,
	Usage:    "requesting domain, exactly as queued",
}

var flagItemName = &cli.StringFlag{
	Name:     "item-name",
	Required: true,
	Usage:    "item name",
}

func gatewayClient(cCtx *cli.Context) *clients.GatewayClient {
	client := clients.NewGatewayClient(cCtx.String(flags.GatewayAddrFlag.Name))
	if origin := cCtx.String(flagOrigin.Name); origin != "" {
		client = client.WithOrigin(origin)
	}
	return client
}

func initiator(cCtx *cli.Context) (common.Address, error) {
	v := cCtx.String(flags.InitiatorFlag.Name)
	if v == "" {
		return common.Address{}, errors.New("--initiator is required")
	}
	return flags.ParseAddress(flags.InitiatorFlag.Name, v)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}

	app := &cli.App{
		Name:           "regadmin",
		Usage:          "Manage item name registrations on a review gateway",
		DefaultCommand: "queue",
		Flags: []cli.Flag{
			flags.GatewayAddrFlag,
			flags.InitiatorFlag,
			flagOrigin,
		},
		Commands: []*cli.Command{
			{
				Name:  "queue",
				Usage: "list pending registrations",
				Action: func(cCtx *cli.Context) error {
					from, err := initiator(cCtx)
					if err != nil {
						return err
					}
					queue, err := gatewayClient(cCtx).Queue(cCtx.Context, from)
					if err != nil {
						return err
					}
					return printJSON(queue)
				},
			},
			{
				Name:  "mapping",
				Usage: "list approved registrations",
				Action: func(cCtx *cli.Context) error {
					from, err := initiator(cCtx)
					if err != nil {
						return err
					}
					mapping, err := gatewayClient(cCtx).Mapping(cCtx.Context, from)
					if err != nil {
						return err
					}
					return printJSON(mapping)
				},
			},
			{
				Name:  "assign",
				Usage: "approve a pending registration as an existing item",
				Flags: []cli.Flag{flagProposedItemName, flagDomain, flagItemName},
				Action: func(cCtx *cli.Context) error {
					from, err := initiator(cCtx)
					if err != nil {
						return err
					}
					err = gatewayClient(cCtx).Assign(cCtx.Context, from,
						cCtx.String(flagProposedItemName.Name),
						cCtx.String(flagDomain.Name),
						cCtx.String(flagItemName.Name))
					if err != nil {
						return err
					}
					fmt.Println("assigned")
					return nil
				},
			},
			{
				Name:  "reject",
				Usage: "remove a pending registration",
				Flags: []cli.Flag{flagProposedItemName, flagDomain},
				Action: func(cCtx *cli.Context) error {
					from, err := initiator(cCtx)
					if err != nil {
						return err
					}
					err = gatewayClient(cCtx).RemoveFromQueue(cCtx.Context, from,
						cCtx.String(flagProposedItemName.Name),
						cCtx.String(flagDomain.Name))
					if err != nil {
						return err
					}
					fmt.Println("removed")
					return nil
				},
			},
			{
				Name:  "register",
				Usage: "queue an item name for the --origin domain",
				Flags: []cli.Flag{flagItemName},
				Action: func(cCtx *cli.Context) error {
					if err := gatewayClient(cCtx).RegisterItem(cCtx.Context, cCtx.String(flagItemName.Name)); err != nil {
						return err
					}
					fmt.Println("queued")
					return nil
				},
			},
			{
				Name:  "check",
				Usage: "show the canonical item name approved for the --origin domain",
				Flags: []cli.Flag{flagItemName},
				Action: func(cCtx *cli.Context) error {
					canonical, found, err := gatewayClient(cCtx).CheckRegistration(cCtx.Context, cCtx.String(flagItemName.Name))
					if err != nil {
						return err
					}
					if !found {
						fmt.Println("not registered")
						return nil
					}
					fmt.Println(canonical)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
