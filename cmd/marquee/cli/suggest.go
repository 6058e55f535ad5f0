// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"

	"github.com/spf13/pflag"
)

// suggestionThreshold is the largest edit distance still worth
// suggesting.
const suggestionThreshold = 3

func suggestCommand(unknown string, commands []*Command) string {
	names := make([]string, len(commands))
	for i, command := range commands {
		names[i] = command.Name
	}
	return closest(unknown, names)
}

// suggestFlag looks for the first argument naming a flag flagSet does
// not define and returns the nearest defined flag, dashes included.
func suggestFlag(args []string, flagSet *pflag.FlagSet) string {
	for _, arg := range args {
		if arg == "--" {
			return ""
		}
		name, isFlag := flagName(arg)
		if !isFlag || defines(flagSet, name) {
			continue
		}

		var names []string
		flagSet.VisitAll(func(flag *pflag.Flag) {
			names = append(names, flag.Name)
		})
		switch best := closest(name, names); len(best) {
		case 0:
			return ""
		case 1:
			return "-" + best
		default:
			return "--" + best
		}
	}
	return ""
}

// flagName strips dashes and any "=value" from arg.
func flagName(arg string) (string, bool) {
	if arg == "-" || !strings.HasPrefix(arg, "-") {
		return "", false
	}
	name, _, _ := strings.Cut(strings.TrimLeft(arg, "-"), "=")
	return name, true
}

func defines(flagSet *pflag.FlagSet, name string) bool {
	if flagSet.Lookup(name) != nil {
		return true
	}
	return len(name) == 1 && flagSet.ShorthandLookup(name) != nil
}

func closest(unknown string, candidates []string) string {
	best, bestDistance := "", suggestionThreshold+1
	for _, candidate := range candidates {
		if distance := levenshtein(unknown, candidate); distance < bestDistance {
			best, bestDistance = candidate, distance
		}
	}
	return best
}

// levenshtein is the edit distance between a and b in runes, keeping
// two rows of the matrix.
func levenshtein(a, b string) int {
	source, target := []rune(a), []rune(b)
	if len(source) < len(target) {
		source, target = target, source
	}

	previous := make([]int, len(target)+1)
	current := make([]int, len(target)+1)
	for j := range previous {
		previous[j] = j
	}
	for i, sourceRune := range source {
		current[0] = i + 1
		for j, targetRune := range target {
			substitution := previous[j]
			if sourceRune != targetRune {
				substitution++
			}
			current[j+1] = min(previous[j+1]+1, current[j]+1, substitution)
		}
		previous, current = current, previous
	}
	return previous[len(target)]
}
