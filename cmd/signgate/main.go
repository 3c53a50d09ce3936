package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/user"
	"path"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/pflag"

	"github.com/signgate/signgate/client"
	"github.com/signgate/signgate/lib"
)

var (
	u, _      = user.Current()
	cfg       = pflag.String("config", path.Join(u.HomeDir, ".signgate.conf"), "Path to config file")
	_         = pflag.String("base_url", "https://api.box.com/2.0", "API base URL. Point this at a signgated gateway to go through it")
	_         = pflag.String("parent_folder_id", "", "Default folder for signed documents")
	noBrowser = pflag.Bool("no-browser", false, "Print the preparation link instead of opening it")
	limit     = pflag.Int("limit", 0, "Page size for the list command")
	marker    = pflag.String("marker", "", "Page marker for the list command")
	version   = pflag.Bool("version", false, "Print version and exit")
)

func init() {
	requestFlags(pflag.CommandLine)
	optionFlags(pflag.CommandLine)
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [create | status ID | cancel ID | resend ID | list]\n", os.Args[0])
		pflag.PrintDefaults()
	}
}

func main() {
	pflag.Parse()
	if *version {
		fmt.Printf("%s\n", lib.Version)
		os.Exit(0)
	}
	log.SetPrefix("signgate: ")
	log.SetFlags(0)

	c, err := client.ReadConfig(*cfg)
	if err != nil {
		log.Fatalf("Configuration error: %v\n", err)
	}
	cl, err := client.New(c)
	if err != nil {
		log.Fatalln(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	args := pflag.Args()
	cmd := "create"
	if len(args) > 0 {
		cmd = args[0]
	}
	id := func() string {
		if len(args) != 2 {
			pflag.Usage()
			os.Exit(2)
		}
		return args[1]
	}

	switch cmd {
	case "create":
		req, err := buildRequest(pflag.CommandLine, c.ParentFolderID)
		if err != nil {
			log.Fatalln(err)
		}
		sr, err := cl.CreateSignRequest(ctx, req)
		if err != nil {
			log.Fatalln("Error creating sign request: ", err)
		}
		printRequest(os.Stdout, sr)
		if sr.PrepareURL == "" {
			return
		}
		if *noBrowser {
			fmt.Printf("Prepare the documents at %s\n", sr.PrepareURL)
			return
		}
		fmt.Printf("Your browser has been opened to visit %s\n", sr.PrepareURL)
		if err := browser.OpenURL(sr.PrepareURL); err != nil {
			fmt.Println("Error launching web browser. Go to the link in your web browser")
		}
	case "status":
		sr, err := cl.GetSignRequest(ctx, id())
		if err != nil {
			log.Fatalln(err)
		}
		printRequest(os.Stdout, sr)
	case "cancel":
		sr, err := cl.CancelSignRequest(ctx, id())
		if err != nil {
			log.Fatalln(err)
		}
		printRequest(os.Stdout, sr)
	case "resend":
		if err := cl.ResendSignRequest(ctx, id()); err != nil {
			log.Fatalln(err)
		}
		fmt.Println("Reminder emails sent.")
	case "list":
		list, err := cl.ListSignRequests(ctx, *marker, *limit)
		if err != nil {
			log.Fatalln(err)
		}
		for _, sr := range list.Entries {
			printRequest(os.Stdout, sr)
		}
		if list.NextMarker != "" {
			fmt.Printf("More results with --marker %s\n", list.NextMarker)
		}
	default:
		pflag.Usage()
		os.Exit(2)
	}
}

func printRequest(w io.Writer, sr *lib.SignRequest) {
	fmt.Fprintf(w, "%s\t%s\t%s\n", sr.ID, sr.Status, sr.Name)
	for _, s := range sr.Signers {
		decision := "pending"
		if s.SignerDecision != nil {
			decision = s.SignerDecision.Type
		}
		fmt.Fprintf(w, "\t%s\t%s\n", s.Email, decision)
	}
}
