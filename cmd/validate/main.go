// Command validate checks a sales export before it is uploaded to the
// dashboard: it runs the full normalization pass and reports the row count,
// the anomalies that would be silently absorbed, and the spans the filters
// would offer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

func main() {
	file := flag.String("file", "", "sales export to validate")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: validate -file <sales export>")
		os.Exit(2)
	}

	if err := run(*file); err != nil {
		fmt.Fprintf(os.Stderr, "validate: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	bar := progressbar.DefaultBytes(info.Size(), "normalizing")
	pr := progressbar.NewReader(f, bar)
	res, err := services.Normalize(context.Background(), &pr)
	if err != nil {
		return err
	}
	_ = bar.Finish()

	opts := services.Options(res.Transactions, models.FilterSpec{})
	summary := services.Summarize(res.Transactions)

	fmt.Printf("\nrows:             %d\n", len(res.Transactions))
	fmt.Printf("bad dates:        %d\n", res.BadDates)
	fmt.Printf("coerced numerics: %d\n", res.CoercedNumerics)
	fmt.Printf("fiscal years:     %v\n", opts.FiscalYears)
	fmt.Printf("platforms:        %d\n", len(opts.Platforms))
	fmt.Printf("categories:       %d\n", len(opts.Categories))
	fmt.Printf("products:         %d\n", len(opts.Products))
	if opts.MinDate != nil && opts.MaxDate != nil {
		fmt.Printf("date span:        %s .. %s\n", opts.MinDate.Format("2006-01-02"), opts.MaxDate.Format("2006-01-02"))
	}
	fmt.Printf("net revenue:      %.2f\n", summary.NetRevenue)
	fmt.Printf("net quantity:     %.0f\n", summary.NetQuantity)
	return nil
}
