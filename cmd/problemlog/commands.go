package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/conorfennell/problemlog/internal/domain"
	"github.com/conorfennell/problemlog/internal/importer"
	"github.com/conorfennell/problemlog/internal/revision"
	"github.com/conorfennell/problemlog/internal/tracker"
	"github.com/conorfennell/problemlog/internal/view"
	"github.com/conorfennell/problemlog/internal/web"
)

func runAdd(ctx context.Context, args []string, _ io.Reader, stdout io.Writer) error {
	fs := newFlagSet("add")
	name := fs.String("name", "", "Problem name (required)")
	link := fs.String("link", "", "Problem URL")
	difficulty := fs.String("difficulty", "", "Easy, Medium or Hard (required)")
	topic := fs.String("topic", "", "Topic, e.g. Array (required)")
	company := fs.String("company", "", "Company (default \""+domain.DefaultCompany+"\")")
	notes := fs.String("notes", "", "Free-form notes")
	revise := fs.Bool("revise", false, "Flag the problem for revision")
	reviseOn := fs.String("revise-on", "", "Revision date: YYYY-MM-DD, today, tomorrow, +Nd or +Nw (implies --revise)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := openSession(ctx, fs)
	if err != nil {
		return err
	}
	defer s.Close()

	when, err := revision.ParseWhen(*reviseOn, s.tracker.Today())
	if err != nil {
		return domain.NewValidationError("revise-on", err.Error())
	}

	p, err := s.tracker.Add(ctx, domain.Fields{
		Name:          *name,
		Link:          *link,
		Difficulty:    domain.Difficulty(*difficulty),
		Topic:         *topic,
		Company:       *company,
		Notes:         *notes,
		NeedsRevision: *revise || when != nil,
		RevisionDate:  when,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s (id %d)\n", view.MsgAdded, p.ID)
	return nil
}

func runList(ctx context.Context, args []string, _ io.Reader, stdout io.Writer) error {
	fs := newFlagSet("list")
	details := fs.Bool("details", false, "Show link, notes and revision date")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := openSession(ctx, fs)
	if err != nil {
		return err
	}
	defer s.Close()

	page := view.Build(s.tracker.Problems(), s.tracker.Today(), nil)
	if err := view.WriteDue(stdout, page); err != nil {
		return err
	}
	if page.ShowRevisions {
		fmt.Fprintln(stdout)
	}
	return view.WriteList(stdout, page, *details)
}

func runDue(ctx context.Context, args []string, _ io.Reader, stdout io.Writer) error {
	fs := newFlagSet("due")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := openSession(ctx, fs)
	if err != nil {
		return err
	}
	defer s.Close()

	page := view.Build(s.tracker.Problems(), s.tracker.Today(), nil)
	if !page.ShowRevisions {
		_, err := fmt.Fprintln(stdout, "Nothing due for revision.")
		return err
	}
	return view.WriteDue(stdout, page)
}

func runStats(ctx context.Context, args []string, _ io.Reader, stdout io.Writer) error {
	fs := newFlagSet("stats")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := openSession(ctx, fs)
	if err != nil {
		return err
	}
	defer s.Close()

	return view.WriteStats(stdout, view.Build(s.tracker.Problems(), s.tracker.Today(), nil))
}

func runRevise(ctx context.Context, args []string, _ io.Reader, stdout io.Writer) error {
	fs := newFlagSet("revise")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := idArg(fs)
	if err != nil {
		return err
	}

	s, err := openSession(ctx, fs)
	if err != nil {
		return err
	}
	defer s.Close()

	found, err := s.tracker.MarkRevised(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(stdout, "No problem with id %d.\n", id)
		return nil
	}
	fmt.Fprintln(stdout, view.MsgRevised)
	return nil
}

func runShow(ctx context.Context, args []string, _ io.Reader, stdout io.Writer) error {
	fs := newFlagSet("show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := idArg(fs)
	if err != nil {
		return err
	}

	s, err := openSession(ctx, fs)
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.tracker.Find(id)
	if err != nil {
		return err
	}
	return view.WriteList(stdout, view.Build([]domain.Problem{p}, s.tracker.Today(), nil), true)
}

func runDelete(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := newFlagSet("delete")
	yes := fs.Bool("yes", false, "Do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := idArg(fs)
	if err != nil {
		return err
	}

	s, err := openSession(ctx, fs)
	if err != nil {
		return err
	}
	defer s.Close()

	var confirm tracker.Confirmer = tracker.Confirmed
	if !*yes {
		confirm = promptConfirmer(stdin, stdout)
	}
	deleted, err := s.tracker.Delete(ctx, id, confirm)
	if err != nil {
		return err
	}
	if deleted {
		fmt.Fprintln(stdout, view.MsgDeleted)
	}
	return nil
}

func runImport(ctx context.Context, args []string, _ io.Reader, stdout io.Writer) error {
	fs := newFlagSet("import")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("import needs exactly one directory or git URL")
	}

	s, err := openSession(ctx, fs)
	if err != nil {
		return err
	}
	defer s.Close()

	report, err := importer.New(s.tracker, s.cfg.Import.ReposDir, os.Stderr, s.logger).Run(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Found %d files: %d added, %d already tracked, %d errors.\n",
		report.Files, report.Added, report.Skipped, len(report.Errors))
	if len(report.Errors) > 0 {
		fmt.Fprintln(stdout, "\nErrors:")
		for _, e := range report.Errors {
			fmt.Fprintf(stdout, "- %s\n", e)
		}
	}
	return nil
}

func runQuarantine(ctx context.Context, args []string, _ io.Reader, stdout io.Writer) error {
	fs := newFlagSet("quarantine")
	discard := fs.Bool("clear", false, "Discard the quarantined copy")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := openSession(ctx, fs)
	if err != nil {
		return err
	}
	defer s.Close()

	raw, ok, err := s.store.Quarantined(ctx)
	if err != nil {
		return err
	}
	if !ok {
		_, err := fmt.Fprintln(stdout, "No quarantined problem list.")
		return err
	}
	if *discard {
		if err := s.store.ClearQuarantine(ctx); err != nil {
			return err
		}
		_, err := fmt.Fprintln(stdout, "Quarantined problem list cleared.")
		return err
	}
	fmt.Fprintf(stdout, "Quarantined under %q:\n", s.store.QuarantineKey())
	_, err = fmt.Fprintln(stdout, raw)
	return err
}

func runServe(ctx context.Context, args []string, _ io.Reader, _ io.Writer) error {
	fs := newFlagSet("serve")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := openSession(ctx, fs)
	if err != nil {
		return err
	}
	defer s.Close()

	handler, err := web.NewServer(s.tracker, s.logger, s.cfg.Web.NotifyAfter)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              s.cfg.Web.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("Server shutdown failed", "error", err)
		}
	}()

	s.logger.Info("Serving web UI", "addr", "http://"+s.cfg.Web.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	s.logger.Info("Server stopped")
	return nil
}

func idArg(fs *pflag.FlagSet) (int64, error) {
	if fs.NArg() != 1 {
		return 0, errors.New("expected exactly one problem id")
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid problem id %q", fs.Arg(0))
	}
	return id, nil
}

// promptConfirmer asks on stdout and accepts "y" or "yes" from stdin.
func promptConfirmer(stdin io.Reader, stdout io.Writer) tracker.Confirmer {
	return tracker.ConfirmFunc(func(prompt string) bool {
		fmt.Fprintf(stdout, "%s [y/N] ", prompt)
		answer, _ := bufio.NewReader(stdin).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	})
}
