package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"
)

// Files prints the user's uploaded files. The listing is served from the
// cache when fresh; refresh forces a round trip.
func (a *App) Files(ctx context.Context, refresh bool) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}

	list := a.files.List
	if refresh {
		list = a.files.Refresh
	}
	files, err := list(ctx)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(a.out, "No files uploaded yet.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tSIZE\tTYPE\tUPLOADED\tSTATUS")
	for _, f := range files {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			f.Filename, formatSize(f.Size), f.ContentType,
			f.UploadedAt.Local().Format(time.RFC822), f.Status)
	}
	return w.Flush()
}

func (a *App) Storage(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}

	info, err := a.storageInfo.Load(ctx)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	fmt.Fprintf(a.out, "Account: %s\nContainer: %s\nLocation: %s\n",
		info.AccountName, info.ContainerName, info.Location)
	return nil
}

func (a *App) Destinations(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}

	opts, err := a.files.ContainerOptions(ctx)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	if len(opts) == 0 {
		fmt.Fprintln(a.out, "No containers available.")
		return nil
	}
	for _, o := range opts {
		fmt.Fprintf(a.out, "  %s\n", o.DisplayName)
	}
	return nil
}

// History prints the locally journaled uploads, newest first.
func (a *App) History(ctx context.Context) error {
	records, err := a.journal.Recent(ctx, 20)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(a.out, "No uploads recorded on this machine.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tSIZE\tUPLOADED")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			r.Filename, formatSize(r.SizeBytes), r.UploadedAt.Local().Format(time.RFC822))
	}
	return w.Flush()
}
