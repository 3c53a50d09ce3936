package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path"
	"regexp"
	"strings"
	"time"
)

const (
	dateFormat     = "20060102150405"
	migrationsPath = "server/store/migrations"
)

var (
	contents = []byte(`-- +migrate Up


-- +migrate Down
`)
	invalidChars = regexp.MustCompile(`[^a-z0-9_]+`)
)

// fileName returns the migration file name for a description at t.
func fileName(description string, t time.Time) string {
	slug := invalidChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(description)), "_")
	return fmt.Sprintf("%s_%s.sql", t.UTC().Format(dateFormat), strings.Trim(slug, "_"))
}

func main() {
	flag.Usage = func() {
		fmt.Println("Usage: migration <migration name>")
	}
	flag.Parse()
	if len(flag.Args()) != 1 {
		flag.Usage()
		os.Exit(2)
	}
	name := fileName(flag.Arg(0), time.Now())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	gitRoot, err := exec.CommandContext(ctx, "git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		log.Fatal(err)
	}
	root := path.Join(strings.TrimSpace(string(gitRoot)), migrationsPath)
	ents, err := os.ReadDir(root)
	if err != nil {
		log.Fatal(err)
	}
	// One file per dialect, all with the same name.
	for _, e := range ents {
		if !e.IsDir() {
			continue
		}
		filename := path.Join(root, e.Name(), name)
		f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err != nil {
			log.Fatal(err)
		}
		if _, err := f.Write(contents); err != nil {
			log.Fatal(err)
		}
		f.Close()
		fmt.Printf("Wrote empty migration file: %s\n", filename)
	}
}
