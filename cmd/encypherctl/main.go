// Command encypherctl is a thin CLI over this module's embed/extract/
// verify API, plus a keygen helper for producing the raw Ed25519 key
// files the other subcommands expect.
package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/encypherai/encypher-ai/pkg/configuration"
	"github.com/encypherai/encypher-ai/pkg/embed"
	"github.com/encypherai/encypher-ai/pkg/logger"
	"github.com/encypherai/encypher-ai/pkg/manifest"
	"github.com/encypherai/encypher-ai/pkg/signing"
	"github.com/encypherai/encypher-ai/pkg/sitepolicy"
)

func main() {
	cfg, err := configuration.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "encypherctl: configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New("encypherctl", "", false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encypherctl: logger: %v\n", err)
		os.Exit(1)
	}
	mainLog := log.Named("main")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var cmdErr error
	switch os.Args[1] {
	case "keygen":
		cmdErr = runKeygen(os.Args[2:])
	case "embed":
		cmdErr = runEmbed(os.Args[2:], cfg, mainLog)
	case "extract":
		cmdErr = runExtract(os.Args[2:])
	case "verify":
		cmdErr = runVerify(os.Args[2:], cfg, mainLog)
	default:
		usage()
		os.Exit(2)
	}

	if cmdErr != nil {
		mainLog.Error(cmdErr, "command failed")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: encypherctl <keygen|embed|extract|verify> [flags]")
}

func runKeygen(args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	seedOut := fs.String("seed-out", "encypher.seed", "path to write the raw 32-byte private seed")
	pubOut := fs.String("pub-out", "encypher.pub", "path to write the raw 32-byte public key")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	if err := os.WriteFile(*seedOut, priv.Seed(), 0o600); err != nil {
		return err
	}
	if err := os.WriteFile(*pubOut, pub, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s and %s\n", *seedOut, *pubOut)
	return nil
}

func runEmbed(args []string, cfg *configuration.Config, log *logger.Log) error {
	fs := flag.NewFlagSet("embed", flag.ExitOnError)
	format := fs.String("format", "c2pa", "basic | legacy-json | legacy-cbor | c2pa")
	inPath := fs.String("in", "", "input text file (default stdin)")
	outPath := fs.String("out", "", "output text file (default stdout)")
	payloadPath := fs.String("payload", "", "JSON file with payload fields (basic/legacy formats only)")
	keyPath := fs.String("key", "", "path to raw 32-byte Ed25519 private seed")
	signerID := fs.String("signer", "", "signer identifier")
	target := fs.String("target", "", "legacy site-selection target")
	distribute := fs.Bool("distribute", false, "spread the legacy payload across every matching site")
	fanout := fs.Int("fanout", 0, "maximum bytes per site in distributed mode (0 uses the configured default)")
	hardBinding := fs.Bool("hard-binding", cfg.HardBindingDefault, "add a C2PA hard binding assertion")
	claimGenerator := fs.String("claim-generator", "encypherctl", "C2PA claim_generator string")
	omitKeys := fs.String("omit-keys", "", "comma-separated custom_metadata keys to drop before signing (basic format)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *keyPath == "" || *signerID == "" {
		return fmt.Errorf("embed: -key and -signer are required")
	}

	text, err := readInput(*inPath)
	if err != nil {
		return err
	}
	priv, err := readPrivateKey(*keyPath)
	if err != nil {
		return err
	}
	signer, err := signing.NewSoftwareSigner(priv, *signerID)
	if err != nil {
		return err
	}

	opts := embed.Options{
		AddHardBinding:          hardBinding,
		DistributeAcrossTargets: *distribute,
		DistributionFanout:      resolveFanout(*fanout, cfg),
		ClaimGenerator:          *claimGenerator,
	}
	if *target != "" {
		opts.Target = sitepolicy.Target(*target)
	}
	if *omitKeys != "" {
		opts.OmitKeys = strings.Split(*omitKeys, ",")
	}

	var out string
	switch *format {
	case "basic":
		var payload manifest.BasicPayload
		if err := readJSONPayload(*payloadPath, &payload); err != nil {
			return err
		}
		out, err = embed.EmbedBasic(text, &payload, signer, opts)
	case "legacy-json", "legacy-cbor":
		var payload manifest.LegacyManifest
		if err := readJSONPayload(*payloadPath, &payload); err != nil {
			return err
		}
		out, err = embed.EmbedLegacyManifest(text, &payload, *format == "legacy-cbor", signer, opts)
	case "c2pa":
		out, err = embed.EmbedC2PA(text, signer, opts)
	default:
		return fmt.Errorf("embed: unknown format %q", *format)
	}
	if err != nil {
		return err
	}

	log.Info("embedded payload", "format", *format, "signer", *signerID)
	return writeOutput(*outPath, out)
}

func runExtract(args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	inPath := fs.String("in", "", "input text file (default stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	text, err := readInput(*inPath)
	if err != nil {
		return err
	}

	result, ok := embed.Extract(text)
	if !ok {
		return fmt.Errorf("extract: no embedded payload found")
	}
	return printJSON(result)
}

func runVerify(args []string, cfg *configuration.Config, log *logger.Log) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	inPath := fs.String("in", "", "input text file (default stdin)")
	pubPath := fs.String("pubkey", "", "path to raw 32-byte Ed25519 public key")
	signerID := fs.String("signer", "", "signer identifier the public key belongs to")
	requireHardBinding := fs.Bool("require-hard-binding", true, "check the C2PA hard binding against the text when the manifest carries one")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *pubPath == "" || *signerID == "" {
		return fmt.Errorf("verify: -pubkey and -signer are required")
	}

	text, err := readInput(*inPath)
	if err != nil {
		return err
	}
	pub, err := readPublicKey(*pubPath)
	if err != nil {
		return err
	}

	resolver := signing.NewStaticResolver(map[string]ed25519.PublicKey{*signerID: pub})
	result, err := embed.Verify(text, resolver, embed.VerifyOptions{
		RequireHardBinding:     requireHardBinding,
		ReturnPayloadOnFailure: true,
	})
	if err != nil {
		log.Info("verification failed", "error", err)
	}
	return printJSON(result)
}

func resolveFanout(flagValue int, cfg *configuration.Config) int {
	if flagValue > 0 {
		return flagValue
	}
	return cfg.DistributionFanout
}

func readInput(path string) (string, error) {
	var data []byte
	var err error
	if path == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	return string(data), err
}

func writeOutput(path, text string) error {
	if path == "" {
		_, err := fmt.Print(text)
		return err
	}
	return os.WriteFile(path, []byte(text), 0o644)
}

func readPrivateKey(path string) (ed25519.PrivateKey, error) {
	seed, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("private key file must be %d raw bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

func readPublicKey(path string) (ed25519.PublicKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key file must be %d raw bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}

func readJSONPayload(path string, v any) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
