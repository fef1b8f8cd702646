package contract

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

//go:embed reviews.abi.json
var defaultABI []byte

// requiredMethods lists every contract method the gateway calls. A loaded ABI
// missing any of them is rejected at startup rather than on first request.
var requiredMethods = []string{
	"addAuthorizedEditor",
	"removeAuthorizedEditor",
	"getAuthorizedEditors",
	"isAuthorizedEditorAddress",
	"addItem",
	"updateInfoIPFSHashOfItem",
	"getInfoIPFSHashOfItem",
	"addReview",
	"getDomainID",
	"getDomainByID",
	"getDomain",
	"getDomains",
	"getItemID",
	"getItemByID",
	"getItem",
	"getItems",
	"getReviewByID",
	"getReviews",
	"getReviewsForDomain",
	"getReviewsForDomainByID",
	"getReviewsForItem",
	"getReviewsForItemByID",
	"getUserReviews",
	"getReviewsForItemOfDomain",
	"getReviewsForItemIDOfDomain",
	"getReviewsForItemOfDomainByID",
	"getReviewsForItemIDOfDomainByID",
}

// ErrIncompleteABI is returned when an ABI lacks a method the client needs.
var ErrIncompleteABI = errors.New("contract ABI is missing required methods")

// DefaultABI returns the embedded review contract ABI.
func DefaultABI() abi.ABI {
	parsed, err := ParseABI(defaultABI)
	if err != nil {
		panic(fmt.Sprintf("embedded review ABI is invalid: %v", err))
	}
	return parsed
}

// LoadABI resolves an ABI from source, which may be empty (embedded ABI),
// an inline JSON document, or a path to a JSON file.
func LoadABI(source string) (abi.ABI, error) {
	trimmed := strings.TrimSpace(source)
	switch {
	case trimmed == "":
		return DefaultABI(), nil
	case strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{"):
		return ParseABI([]byte(trimmed))
	}

	data, err := os.ReadFile(trimmed)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to read ABI file %s: %w", trimmed, err)
	}
	return ParseABI(data)
}

// ParseABI parses either a bare ABI array or a compiler artifact of the form
// {"abi": [...], "bytecode": "..."} and checks that all required methods are
// present.
func ParseABI(data []byte) (abi.ABI, error) {
	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("{")) {
		var artifact struct {
			ABI json.RawMessage `json:"abi"`
		}
		if err := json.Unmarshal(data, &artifact); err != nil {
			return abi.ABI{}, fmt.Errorf("failed to decode ABI artifact: %w", err)
		}
		if len(artifact.ABI) == 0 {
			return abi.ABI{}, errors.New("ABI artifact has no abi field")
		}
		data = artifact.ABI
	}

	parsed, err := abi.JSON(bytes.NewReader(data))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse ABI: %w", err)
	}

	var missing []string
	for _, name := range requiredMethods {
		if _, ok := parsed.Methods[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return abi.ABI{}, fmt.Errorf("%w: %s", ErrIncompleteABI, strings.Join(missing, ", "))
	}

	return parsed, nil
}
