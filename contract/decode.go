package contract

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/lastweeknextday/review-gateway/interfaces"
)

// ErrUnexpectedOutput is returned when a contract call result does not have
// the shape the client expects.
var ErrUnexpectedOutput = errors.New("unexpected contract output")

var bigIntType = reflect.TypeOf(&big.Int{})

// coerceArg converts uint64 arguments to the Go type the ABI uses for the
// declared integer width, so the same client works whether the contract
// takes uint8 or uint256.
func coerceArg(t abi.Type, v interface{}) (interface{}, error) {
	n, ok := v.(uint64)
	if !ok || (t.T != abi.UintTy && t.T != abi.IntTy) {
		return v, nil
	}

	target := t.GetType()
	if target == bigIntType {
		return new(big.Int).SetUint64(n), nil
	}

	zero := reflect.Zero(target)
	switch target.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if zero.OverflowUint(n) {
			return nil, fmt.Errorf("value %d overflows %s", n, t.String())
		}
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n > math.MaxInt64 || zero.OverflowInt(int64(n)) {
			return nil, fmt.Errorf("value %d overflows %s", n, t.String())
		}
	default:
		return nil, fmt.Errorf("unsupported integer type %s", t.String())
	}
	return reflect.ValueOf(n).Convert(target).Interface(), nil
}

func toUint64(v interface{}) (uint64, error) {
	if b, ok := v.(*big.Int); ok {
		if b == nil || !b.IsUint64() {
			return 0, fmt.Errorf("%w: integer %v out of range", ErrUnexpectedOutput, b)
		}
		return b.Uint64(), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Int() < 0 {
			return 0, fmt.Errorf("%w: negative integer %d", ErrUnexpectedOutput, rv.Int())
		}
		return uint64(rv.Int()), nil
	}
	return 0, fmt.Errorf("%w: expected integer, got %T", ErrUnexpectedOutput, v)
}

func toString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected string, got %T", ErrUnexpectedOutput, v)
	}
	return s, nil
}

func toStrings(v interface{}) ([]string, error) {
	s, ok := v.([]string)
	if !ok {
		return nil, fmt.Errorf("%w: expected string array, got %T", ErrUnexpectedOutput, v)
	}
	if s == nil {
		s = []string{}
	}
	return s, nil
}

func toAddress(v interface{}) (common.Address, error) {
	a, ok := v.(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%w: expected address, got %T", ErrUnexpectedOutput, v)
	}
	return a, nil
}

// tupleFields returns the fields of an unpacked tuple in declaration order.
// Tuples are read positionally so that component names in a user supplied
// ABI do not have to match ours.
func tupleFields(v interface{}, want int) ([]interface{}, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: expected tuple, got %T", ErrUnexpectedOutput, v)
	}
	if rv.NumField() < want {
		return nil, fmt.Errorf("%w: tuple has %d fields, want %d", ErrUnexpectedOutput, rv.NumField(), want)
	}

	fields := make([]interface{}, rv.NumField())
	for i := range fields {
		fields[i] = rv.Field(i).Interface()
	}
	return fields, nil
}

func decodeList[T any](v interface{}, decode func(interface{}) (T, error)) ([]T, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: expected array, got %T", ErrUnexpectedOutput, v)
	}

	out := make([]T, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		el, err := decode(rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, el)
	}
	return out, nil
}

func decodeItem(v interface{}) (interfaces.Item, error) {
	f, err := tupleFields(v, 5)
	if err != nil {
		return interfaces.Item{}, err
	}

	var item interfaces.Item
	if item.ID, err = toUint64(f[0]); err != nil {
		return interfaces.Item{}, err
	}
	if item.Name, err = toString(f[1]); err != nil {
		return interfaces.Item{}, err
	}
	if item.InfoIPFSHash, err = toString(f[2]); err != nil {
		return interfaces.Item{}, err
	}
	if item.AvailableOnDomainNames, err = toStrings(f[3]); err != nil {
		return interfaces.Item{}, err
	}
	if item.Rating, err = toUint64(f[4]); err != nil {
		return interfaces.Item{}, err
	}
	return item, nil
}

func decodeDomain(v interface{}) (interfaces.Domain, error) {
	f, err := tupleFields(v, 3)
	if err != nil {
		return interfaces.Domain{}, err
	}

	var domain interfaces.Domain
	if domain.ID, err = toUint64(f[0]); err != nil {
		return interfaces.Domain{}, err
	}
	if domain.Name, err = toString(f[1]); err != nil {
		return interfaces.Domain{}, err
	}
	if domain.ItemNames, err = toStrings(f[2]); err != nil {
		return interfaces.Domain{}, err
	}
	return domain, nil
}

func decodeReview(v interface{}) (interfaces.Review, error) {
	f, err := tupleFields(v, 6)
	if err != nil {
		return interfaces.Review{}, err
	}

	var review interfaces.Review
	if review.ID, err = toUint64(f[0]); err != nil {
		return interfaces.Review{}, err
	}
	if review.Reviewer, err = toAddress(f[1]); err != nil {
		return interfaces.Review{}, err
	}
	if review.ItemName, err = toString(f[2]); err != nil {
		return interfaces.Review{}, err
	}
	if review.DomainName, err = toString(f[3]); err != nil {
		return interfaces.Review{}, err
	}
	if review.Comment, err = toString(f[4]); err != nil {
		return interfaces.Review{}, err
	}
	if review.Rating, err = toUint64(f[5]); err != nil {
		return interfaces.Review{}, err
	}
	return review, nil
}

func decodeAddresses(v interface{}) ([]common.Address, error) {
	a, ok := v.([]common.Address)
	if !ok {
		return nil, fmt.Errorf("%w: expected address array, got %T", ErrUnexpectedOutput, v)
	}
	if a == nil {
		a = []common.Address{}
	}
	return a, nil
}
