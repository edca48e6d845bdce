// Command shopctl drives the storefront API from a terminal through the same
// client and request lifecycle the storefront screens use.
//
//	shopctl -base http://localhost:8080 list -page 1 -limit 10
//	shopctl verify -link 'http://localhost:3000/verify?token=...'
//	shopctl -email pierre@pierres.shop -password ... create -name "Blue Scarf" -category accessories -season spring,fall
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"pierres.shop/app/pkg/client"
	"pierres.shop/app/pkg/view"
)

func main() {
	base := flag.String("base", "http://localhost:8080", "API base URL")
	email := flag.String("email", os.Getenv("SHOP_EMAIL"), "Admin email (create/edit)")
	password := flag.String("password", os.Getenv("SHOP_PASSWORD"), "Admin password (create/edit)")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall timeout")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: shopctl [flags] list|verify|create|edit [command flags]")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c := client.New(*base)
	navigated := make(chan string, 1)
	ls := client.NewLifecycles(client.WithEffects(client.Effects{
		SignOut: c.SignOut,
		Navigate: func(p string) {
			fmt.Printf("-> %s\n", p)
			select {
			case navigated <- p:
			default:
			}
		},
		Notify: func(f view.Flash) { fmt.Println(f) },
	}))
	defer ls.Close()

	var err error
	switch cmd, args := flag.Arg(0), flag.Args()[1:]; cmd {
	case "list":
		err = list(ctx, c, ls, args)
	case "verify":
		err = verify(ctx, c, ls.For(view.KindUser), navigated, args)
	case "create", "edit":
		if _, err = c.Login(ctx, *email, *password); err == nil {
			err = submit(ctx, c, ls.For(view.KindProduct), cmd == "edit", args)
		}
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func list(ctx context.Context, c *client.Client, ls *client.Lifecycles, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	page := fs.Int("page", 1, "Page")
	limit := fs.Int("limit", view.DefaultLimit, "Page size (30, 20, 10 or 5)")
	_ = fs.Parse(args)

	var (
		cats     view.CategoryList
		products view.ProductList
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st, err := ls.For(view.KindCategory).Dispatch(gctx, c.ListCategoriesAction(&cats))
		if err != nil {
			return err
		}
		return stateErr(st)
	})
	g.Go(func() error {
		st, err := ls.For(view.KindProduct).Dispatch(gctx, c.ListProductsAction(*page, *limit, &products))
		if err != nil {
			return err
		}
		return stateErr(st)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("Categories (%d):\n", len(cats.Items))
	for _, cat := range cats.Items {
		fmt.Printf("  %-20s %s\n", cat.Slug, cat.Name)
	}

	pager, err := client.NewPager(products.Pagination, nil, nil)
	if err != nil {
		return err
	}
	fmt.Printf("Products, page %d of %d:\n", products.Pagination.CurrentPage, products.Pagination.TotalPages)
	for _, p := range products.Items {
		fmt.Printf("  %-24s %10s  %-8s %s\n", p.Slug, view.FormatPrice(p.Price), p.Quality, strings.Join(p.Season, ","))
	}
	var marks []string
	for _, d := range pager.Pages() {
		if d.Current {
			marks = append(marks, fmt.Sprintf("[%d]", d.Index))
		} else {
			marks = append(marks, fmt.Sprint(d.Index))
		}
	}
	fmt.Printf("  pages: %s\n", strings.Join(marks, " "))
	return nil
}

// verify stays up until the lifecycle's delayed redirect to the login view
// fires, so the terminal shows the same sequence the verify page does.
func verify(ctx context.Context, c *client.Client, l *client.Lifecycle, navigated <-chan string, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	link := fs.String("link", "", "Verification link from the email")
	_ = fs.Parse(args)

	st, err := c.VerifyLink(ctx, l, *link)
	if errors.Is(err, client.ErrInvalidURL) {
		return errors.New(client.InvalidURLMessage)
	}
	if err != nil {
		return err
	}
	if err := stateErr(st); err != nil {
		return err
	}
	if st.Outcome != view.OutcomeVerified {
		return nil
	}

	fmt.Printf("Redirecting to %s in %s...\n", client.DefaultLoginPath, client.DefaultRedirectDelay)
	select {
	case <-navigated:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func submit(ctx context.Context, c *client.Client, l *client.Lifecycle, edit bool, args []string) error {
	fs := flag.NewFlagSet("product", flag.ExitOnError)
	slugFlag := fs.String("slug", "", "Slug of the product to edit")
	name := fs.String("name", "", "Name")
	desc := fs.String("description", "", "Description")
	price := fs.Float64("price", 0, "Price")
	stock := fs.Int("stock", 0, "In stock")
	sold := fs.Int("sold", 0, "Sold")
	quality := fs.String("quality", "Regular", "Quality")
	category := fs.String("category", "", "Category slug")
	size := fs.String("size", "", "Size")
	seasons := fs.String("season", "", "Comma separated seasons")
	image := fs.String("image", "", "Image file")
	_ = fs.Parse(args)

	d := client.Draft{
		Name:        *name,
		Description: *desc,
		Price:       *price,
		InStock:     *stock,
		Quality:     *quality,
		Sold:        *sold,
		Category:    *category,
		Size:        *size,
	}
	for _, s := range strings.Split(*seasons, ",") {
		if s = strings.TrimSpace(s); s != "" {
			d.Season.Toggle(client.Season(s))
		}
	}
	if *image != "" {
		data, err := os.ReadFile(*image)
		if err != nil {
			return err
		}
		d.Image = &client.Attachment{Filename: filepath.Base(*image), ContentType: imageType(*image), Data: data}
	}

	var (
		req client.ProductRequest
		err error
	)
	if edit {
		req, err = client.EditRequest(*slugFlag, d)
	} else {
		req, err = client.CreateRequest(d)
	}
	if err != nil {
		return err
	}

	st, err := l.Dispatch(ctx, c.SubmitProductAction(req))
	if err != nil {
		return err
	}
	return stateErr(st)
}

func stateErr(st client.State) error {
	if st.Status == client.StatusError {
		if st.StatusCode != 0 {
			return fmt.Errorf("%d %s", st.StatusCode, st.Message)
		}
		return fmt.Errorf("%s", st.Message)
	}
	return nil
}

func imageType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	}
	return "application/octet-stream"
}
