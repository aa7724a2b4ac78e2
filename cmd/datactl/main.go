package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"homebanking/internal/config"
	"homebanking/internal/db"
	"homebanking/internal/store"
)

const usage = `usage: datactl <command> [flags]

commands:
  export [-o file]   write every collection as one JSON document
  import -i file     replace every collection with an exported document
  reset              restore the demo data set
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cfg := config.Load()
	backend, err := db.Open(db.Options{
		Driver:        cfg.StoreDriver,
		Path:          cfg.StorePath,
		DatabaseURL:   cfg.DatabaseURL,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	})
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	st := store.New(backend, cfg.StoreKeyPrefix)
	defer st.Close()

	if err := run(context.Background(), st, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func run(ctx context.Context, st *store.Store, command string, args []string) error {
	flags := flag.NewFlagSet(command, flag.ContinueOnError)
	output := flags.String("o", "", "export destination, stdout when empty")
	input := flags.String("i", "", "file to import")
	if err := flags.Parse(args); err != nil {
		return err
	}
	switch command {
	case "export":
		data, err := st.ExportAll(ctx)
		if err != nil {
			return err
		}
		if *output == "" {
			_, err = os.Stdout.Write(data)
			return err
		}
		return os.WriteFile(*output, data, 0o600)
	case "import":
		if *input == "" {
			return fmt.Errorf("-i is required")
		}
		data, err := readInput(*input)
		if err != nil {
			return err
		}
		return st.ImportAll(ctx, data)
	case "reset":
		return st.ResetToDefaults(ctx)
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
