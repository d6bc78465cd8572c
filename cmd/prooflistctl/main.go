// Command prooflistctl inspects and mutates a single Merkleized proof list
// stored in a pebble database on disk.
//
// Usage:
//
//	prooflistctl [flags] <subcommand> [args]
//
// Subcommands:
//
//	push <hex-value>           append a value, encoded as hex, to the list
//	get <index>                print the value at a position
//	len                        print the list's current length
//	root                       print the list's ListHash
//	proof <index>              print a JSON-rendered membership proof
//	range-proof <from> <to>    print a JSON-rendered range proof
//
// Flags:
//
//	--datadir    pebble database directory (default: ./prooflistdata)
//	--name       index name (default: "list")
//	--verbosity  log level 0-5 (default: 3); accepted, but log output is
//	             not filtered by it
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/ethereum/go-ethereum/log"

	"github.com/eth2030/prooflist/kv"
	"github.com/eth2030/prooflist/prooflist"
)

var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// config holds resolved CLI flags, analogous to node.Config in eth2030's
// own command-line entry point.
type config struct {
	DataDir   string
	Name      string
	Verbosity int
}

func defaultConfig() config {
	return config{DataDir: "./prooflistdata", Name: "list", Verbosity: 3}
}

// run is the actual entry point, returning an exit code; kept separate
// from main so it can be exercised without a live process.
func run(args []string) int {
	cfg, subArgs, exit, code := parseFlags(args)
	if exit {
		return code
	}

	if len(subArgs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: missing subcommand")
		return 2
	}

	store, err := kv.OpenPebbleStore(cfg.DataDir)
	if err != nil {
		log.Crit("Failed to open pebble store", "dir", cfg.DataDir, "err", err)
		return 1
	}
	defer store.Close()

	list := prooflist.NewMutable[[]byte](cfg.Name, store, prooflist.BytesCodec)

	if err := dispatch(list, subArgs[0], subArgs[1:]); err != nil {
		log.Error("Command failed", "cmd", subArgs[0], "err", err)
		return 1
	}
	return 0
}

func dispatch(list *prooflist.ProofListIndex[[]byte], cmd string, args []string) error {
	switch cmd {
	case "push":
		return cmdPush(list, args)
	case "get":
		return cmdGet(list, args)
	case "len":
		return cmdLen(list)
	case "root":
		return cmdRoot(list)
	case "proof":
		return cmdProof(list, args)
	case "range-proof":
		return cmdRangeProof(list, args)
	default:
		return fmt.Errorf("unknown subcommand %q", cmd)
	}
}

func cmdPush(list *prooflist.ProofListIndex[[]byte], args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("push requires exactly one hex-encoded value argument")
	}
	value, err := hex.DecodeString(args[0])
	if err != nil {
		return fmt.Errorf("decoding value: %w", err)
	}
	if err := list.Push(value); err != nil {
		return err
	}
	n, err := list.Len()
	if err != nil {
		return err
	}
	log.Info("Pushed value", "index", n-1, "len", n)
	return nil
}

func cmdGet(list *prooflist.ProofListIndex[[]byte], args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("get requires exactly one index argument")
	}
	i, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("parsing index: %w", err)
	}
	v, ok, err := list.Get(i)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("index %d out of bounds", i)
	}
	fmt.Println(hex.EncodeToString(v))
	return nil
}

func cmdLen(list *prooflist.ProofListIndex[[]byte]) error {
	n, err := list.Len()
	if err != nil {
		return err
	}
	fmt.Println(n)
	return nil
}

func cmdRoot(list *prooflist.ProofListIndex[[]byte]) error {
	h, err := list.ListHash()
	if err != nil {
		return err
	}
	fmt.Println(hex.EncodeToString(h[:]))
	return nil
}

func cmdProof(list *prooflist.ProofListIndex[[]byte], args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("proof requires exactly one index argument")
	}
	i, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("parsing index: %w", err)
	}
	proof, err := list.GetProof(i)
	if err != nil {
		return err
	}
	return printProof(proof)
}

func cmdRangeProof(list *prooflist.ProofListIndex[[]byte], args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("range-proof requires exactly two arguments: from, to")
	}
	from, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("parsing from: %w", err)
	}
	to, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("parsing to: %w", err)
	}
	proof, err := list.GetRangeProof(from, to)
	if err != nil {
		return err
	}
	return printProof(proof)
}

// proofJSON is a JSON-friendly rendering of a ListProof, since ListProof
// itself holds raw values as a generic field not directly marshalable
// without knowing the caller's value type conventions.
type proofJSON struct {
	Kind        string      `json:"kind"`
	Value       string      `json:"value,omitempty"`
	Left        *proofJSON  `json:"left,omitempty"`
	Right       *proofJSON  `json:"right,omitempty"`
	SiblingHash string      `json:"sibling_hash,omitempty"`
	Len         uint64      `json:"len,omitempty"`
	Root        string      `json:"root,omitempty"`
}

func renderProof(p prooflist.ListProof[[]byte]) proofJSON {
	out := proofJSON{Kind: p.Kind.String()}
	switch p.Kind {
	case prooflist.KindLeaf:
		out.Value = hex.EncodeToString(p.Leaf)
	case prooflist.KindLeft:
		sub := renderProof(*p.Left)
		out.Left = &sub
		if p.SiblingHash != nil {
			out.SiblingHash = hex.EncodeToString(p.SiblingHash[:])
		}
	case prooflist.KindRight:
		sub := renderProof(*p.Right)
		out.Right = &sub
		if p.SiblingHash != nil {
			out.SiblingHash = hex.EncodeToString(p.SiblingHash[:])
		}
	case prooflist.KindFull:
		left := renderProof(*p.Left)
		right := renderProof(*p.Right)
		out.Left = &left
		out.Right = &right
	case prooflist.KindAbsent:
		out.Len = p.Len
		out.Root = hex.EncodeToString(p.Root[:])
	}
	return out
}

func printProof(p prooflist.ListProof[[]byte]) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(renderProof(p))
}

// parseFlags parses CLI arguments into a config, returning the resolved
// config, the remaining (non-flag) arguments, whether the caller should
// exit immediately, and the exit code.
func parseFlags(args []string) (config, []string, bool, int) {
	cfg := defaultConfig()
	fs := newFlagSet(&cfg)
	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cfg, nil, true, 2
	}
	if *showVersion {
		fmt.Printf("prooflistctl %s (commit %s)\n", version, commit)
		return cfg, nil, true, 0
	}
	return cfg, fs.Args(), false, 0
}

func newFlagSet(cfg *config) *flagSet {
	fs := newCustomFlagSet("prooflistctl")
	fs.StringVar(&cfg.DataDir, "datadir", cfg.DataDir, "pebble database directory")
	fs.StringVar(&cfg.Name, "name", cfg.Name, "index name")
	fs.IntVar(&cfg.Verbosity, "verbosity", cfg.Verbosity, "log level 0-5 (accepted; log output is not filtered by it)")
	return fs
}
