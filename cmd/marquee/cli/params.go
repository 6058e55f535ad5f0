// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// FlagsFromParams returns a flag set whose flags write into the tagged
// fields of params, which must point to a struct. A params type that
// cannot be bound is a programming error and panics.
//
//	var params sendParams
//	command := &cli.Command{
//	    Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("send", &params) },
//	    Run:   func(ctx context.Context, args []string) error { ... },
//	}
func FlagsFromParams(name string, params any) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if err := BindFlags(params, flagSet); err != nil {
		panic(fmt.Sprintf("cli: binding %s flags: %v", name, err))
	}
	return flagSet
}

// BindFlags adds one flag to flagSet per tagged field of params.
//
//   - flag:"name" or flag:"name,n" names the flag and its optional
//     one-letter shorthand. Untagged fields are left alone.
//   - desc:"..." is the help text.
//   - default:"..." is parsed the same way a command-line value would be.
//
// Fields may be string, bool, int, float64 or [time.Duration]. Tagged
// fields of embedded structs are bound as if declared inline.
func BindFlags(params any, flagSet *pflag.FlagSet) error {
	pointer := reflect.ValueOf(params)
	if pointer.Kind() != reflect.Pointer || pointer.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("params must point to a struct, got %T", params)
	}
	return bindStruct(pointer.Elem(), flagSet)
}

func bindStruct(value reflect.Value, flagSet *pflag.FlagSet) error {
	for _, field := range reflect.VisibleFields(value.Type()) {
		if !throughStructValues(value.Type(), field.Index) {
			continue
		}
		tag, tagged := field.Tag.Lookup("flag")
		if !tagged || field.Anonymous || !field.IsExported() {
			continue
		}
		name, shorthand, _ := strings.Cut(tag, ",")
		target := value.FieldByIndex(field.Index).Addr().Interface()
		if err := bind(flagSet, target, name, shorthand, field.Tag.Get("desc"), field.Tag.Get("default")); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}
	return nil
}

// throughStructValues reports whether a promoted field is reached
// only through embedded struct values, never through a pointer.
func throughStructValues(current reflect.Type, index []int) bool {
	for _, step := range index[:len(index)-1] {
		field := current.Field(step)
		if field.Type.Kind() != reflect.Struct {
			return false
		}
		current = field.Type
	}
	return true
}

// bind registers target under name with its zero value, then applies
// defaultText through the flag's own parser so the default and the
// command line accept exactly the same syntax.
func bind(flagSet *pflag.FlagSet, target any, name, shorthand, usage, defaultText string) error {
	switch target := target.(type) {
	case *string:
		flagSet.StringVarP(target, name, shorthand, "", usage)
	case *bool:
		flagSet.BoolVarP(target, name, shorthand, false, usage)
	case *int:
		flagSet.IntVarP(target, name, shorthand, 0, usage)
	case *float64:
		flagSet.Float64VarP(target, name, shorthand, 0, usage)
	case *time.Duration:
		flagSet.DurationVarP(target, name, shorthand, 0, usage)
	default:
		return fmt.Errorf("--%s: unsupported type %T", name, target)
	}

	if defaultText == "" {
		return nil
	}
	flag := flagSet.Lookup(name)
	if err := flag.Value.Set(defaultText); err != nil {
		return fmt.Errorf("--%s: default %q: %w", name, defaultText, err)
	}
	flag.DefValue = flag.Value.String()
	return nil
}
