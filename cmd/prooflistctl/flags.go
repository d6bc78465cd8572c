package main

import "flag"

// flagSet wraps flag.FlagSet, the way eth2030's own CLI entry point wraps
// flag.FlagSet to add flag types the standard package lacks. This CLI's
// config only needs the string/int/bool flags flag.FlagSet already
// provides natively, so flagSet here is a bare wrapper with no additional
// Var methods.
type flagSet struct {
	*flag.FlagSet
}

func newCustomFlagSet(name string) *flagSet {
	return &flagSet{FlagSet: flag.NewFlagSet(name, flag.ContinueOnError)}
}
