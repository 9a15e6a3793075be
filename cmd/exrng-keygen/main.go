// exrng-keygen derives Ed25519 and X25519 keys from externally supplied
// random bytes. The same seed always yields the same keys. The Ed25519 seed
// is the supplied buffer itself; the X25519 scalar is expanded from it with
// HKDF under its own label, so the two keys share no secret bytes.
//
// Usage:
//
//	exrng-keygen --seed <hex> [--sign message]
//	echo <hex> | exrng-keygen --seed -
//	EXRNG_SEED_HEX=<hex> exrng-keygen
package main

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"exrng"
	"exrng/internal/keyderive"
)

// x25519Info labels the HKDF expansion of the X25519 scalar.
const x25519Info = "exrng-keygen x25519"

// environment supplies defaults for flags left unset.
type environment struct {
	SeedHex string `env:"EXRNG_SEED_HEX"`
}

// output is printed as YAML.
type output struct {
	SeedBytes    int    `yaml:"seed_bytes"`
	Ed25519      string `yaml:"ed25519_public"`
	X25519       string `yaml:"x25519_public"`
	Message      string `yaml:"message,omitempty"`
	Signature    string `yaml:"signature,omitempty"`
	PrivateSeed  string `yaml:"ed25519_seed,omitempty"`
	X25519Scalar string `yaml:"x25519_private,omitempty"`
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	var seedArg, message string
	var showPrivate bool

	flagSet := pflag.NewFlagSet("exrng-keygen", pflag.ContinueOnError)
	flagSet.StringVar(&seedArg, "seed", "", `exactly 32 hex-encoded bytes, or "-" to read from stdin`)
	flagSet.StringVar(&message, "sign", "", "sign this message with the derived Ed25519 key")
	flagSet.BoolVar(&showPrivate, "show-private", false, "include private key material in the output")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if seedArg == "" {
		var environ environment
		if err := env.Parse(&environ); err != nil {
			return fmt.Errorf("parse env: %w", err)
		}
		seedArg = environ.SeedHex
	}
	if seedArg == "-" {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading seed from stdin: %w", err)
		}
		seedArg = line
	}
	if seedArg == "" {
		return errors.New("no seed: pass --seed or set EXRNG_SEED_HEX")
	}

	seed, err := hex.DecodeString(strings.TrimSpace(seedArg))
	if err != nil {
		return fmt.Errorf("decoding seed: %w", err)
	}
	if len(seed) != keyderive.SeedSize {
		return fmt.Errorf("seed has %d bytes, want %d", len(seed), keyderive.SeedSize)
	}

	rng, err := exrng.FromSlice(seed)
	if err != nil {
		return err
	}

	signing, err := keyderive.Ed25519(rng)
	if err != nil {
		return err
	}
	sub, err := keyderive.Subkey(rng, x25519Info)
	if err != nil {
		return err
	}
	agreement, err := keyderive.X25519(sub)
	if err != nil {
		return err
	}

	out := output{
		SeedBytes: len(seed),
		Ed25519:   hex.EncodeToString(signing.Public),
		X25519:    hex.EncodeToString(agreement.Public[:]),
	}
	if flagSet.Changed("sign") {
		out.Message = message
		out.Signature = hex.EncodeToString(keyderive.Sign(signing, []byte(message)))
	}
	if showPrivate {
		out.PrivateSeed = hex.EncodeToString(signing.Private.Seed())
		out.X25519Scalar = hex.EncodeToString(agreement.Private[:])
	}

	encoder := yaml.NewEncoder(stdout)
	defer encoder.Close()
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
