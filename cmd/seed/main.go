package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/bookshelf/pkg/config"
	"github.com/shishobooks/bookshelf/pkg/database"
	"github.com/shishobooks/bookshelf/pkg/migrations"
	"github.com/shishobooks/bookshelf/pkg/seed"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	var opts struct {
		File   string `short:"f" long:"file" description:"Path to the JSON fixture of authors and their books" required:"true"`
		DryRun bool   `short:"n" long:"dry-run" description:"Validate the fixture without writing anything"`
	}

	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		log.Err(err).Fatal("flags parse error")
	}

	f, err := os.Open(opts.File)
	if err != nil {
		log.Err(err).Fatal("fixture open error")
	}
	defer f.Close()

	fixture, err := seed.Decode(f)
	if err != nil {
		log.Err(err).Fatal("fixture error")
	}

	books := 0
	for _, a := range fixture.Authors {
		books += len(a.Books)
	}
	if opts.DryRun {
		fmt.Printf("Fixture is valid: %d authors, %d books\n", len(fixture.Authors), books)
		return
	}

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}
	defer db.Close()

	if _, err := migrations.BringUpToDate(ctx, db); err != nil {
		log.Err(err).Fatal("migrations error")
	}

	summary, err := seed.Apply(ctx, db, fixture)
	if err != nil {
		log.Err(err).Error("seed error", logger.Data{"authors": summary.Authors, "books": summary.Books})
		os.Exit(1)
	}
	fmt.Printf("Seeded %d authors and %d books\n", summary.Authors, summary.Books)
}
