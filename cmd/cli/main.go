package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/veissa/tiredOfLife/internal/client"
	"golang.org/x/term"
)

const usage = `usage: market [-api URL] [-token TOKEN] <command> [args]

commands:
  products          list available products
  producers         list active shops
  pickup-points     list pickup points
  login EMAIL       log in and print a token
  me                show the logged in account
  my-products       list your own products
`

// readPassword is replaced in tests.
var readPassword = term.ReadPassword

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("market", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	apiURL := fs.String("api", envOr("MARKET_API_URL", "http://localhost:3001"), "API base URL")
	token := fs.String("token", os.Getenv("MARKET_TOKEN"), "bearer token for authenticated commands")
	timeout := fs.Duration("timeout", 15*time.Second, "request timeout")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c := client.New(*apiURL, nil)
	session := &client.Session{Token: *token}

	var err error
	switch cmd := fs.Arg(0); cmd {
	case "products":
		err = listProducts(ctx, c, stdout)
	case "producers":
		err = listProducers(ctx, c, stdout)
	case "pickup-points":
		err = listPickupPoints(ctx, c, stdout)
	case "login":
		if fs.NArg() < 2 {
			fmt.Fprintln(stderr, "login requires an email")
			return 2
		}
		err = login(ctx, c, fs.Arg(1), stdout, stderr)
	case "me":
		err = me(ctx, c, session, stdout)
	case "my-products":
		err = myProducts(ctx, c, session, stdout)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}

	if err != nil {
		if errors.Is(err, client.ErrNoSession) {
			fmt.Fprintln(stderr, "error: run login first and pass the token with -token or MARKET_TOKEN")
			return 1
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func listProducts(ctx context.Context, c *client.Client, w io.Writer) error {
	products, err := c.ListProducts(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSHOP\tPRICE\tUNIT\tSTOCK")
	for _, p := range products {
		shop := ""
		if p.Producer != nil {
			shop = p.Producer.ShopName
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", p.Name, shop, p.Price.StringFixed(2), p.Unit, p.Stock)
	}
	return tw.Flush()
}

func listProducers(ctx context.Context, c *client.Client, w io.Writer) error {
	producers, err := c.ListProducers(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SHOP\tADDRESS\tCERTIFICATIONS")
	for _, p := range producers {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ShopName, p.Address, strings.Join(p.Certifications, ", "))
	}
	return tw.Flush()
}

func listPickupPoints(ctx context.Context, c *client.Client, w io.Writer) error {
	points, err := c.PickupPoints(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SHOP\tLOCATION\tHOURS")
	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ShopName, p.Location, p.Hours)
	}
	return tw.Flush()
}

func login(ctx context.Context, c *client.Client, email string, stdout, stderr io.Writer) error {
	fmt.Fprint(stderr, "Enter password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(stderr)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	s, err := c.Login(ctx, email, string(pw))
	for i := range pw {
		pw[i] = 0
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(stderr, "Logged in as %s (%s)\n", s.User.Email, s.User.Role)
	fmt.Fprintln(stdout, s.Token)
	return nil
}

func me(ctx context.Context, c *client.Client, s *client.Session, w io.Writer) error {
	u, err := c.Me(ctx, s)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\t%s\t%s\n", u.ID, u.Email, u.Role)
	return nil
}

func myProducts(ctx context.Context, c *client.Client, s *client.Session, w io.Writer) error {
	products, err := c.MyProducts(ctx, s)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK\tAVAILABLE")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%t\n", p.ID, p.Name, p.Price.StringFixed(2), p.Stock, p.IsAvailable)
	}
	return tw.Flush()
}
