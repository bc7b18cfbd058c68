package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dataport/uplink/internal/client/upload"
	"github.com/dataport/uplink/internal/common"
	"github.com/dataport/uplink/internal/filex"
)

// Upload inspects every path and queues the batch. Local rejections
// (missing file, disallowed type, size, batch budget) surface through the
// event stream, so here we only print what was accepted into the queue.
func (a *App) Upload(ctx context.Context, paths []string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}

	sources := make([]upload.FileSource, 0, len(paths))
	for _, p := range paths {
		info, err := filex.Describe(p)
		if err != nil {
			fmt.Fprintf(a.out, "Skipping %s: %v\n", p, err)
			continue
		}
		sources = append(sources, upload.FileSource{
			Path:      info.Path,
			Filename:  info.Name,
			SizeBytes: info.SizeBytes,
			MimeType:  info.MimeType,
		})
	}
	if len(sources) == 0 {
		return nil
	}

	items := a.uploads.Enqueue(sources...)
	for _, it := range items {
		if it.State == upload.StateRejected {
			continue
		}
		fmt.Fprintf(a.out, "Queued %s (%s) as %s\n", it.Filename, formatSize(it.SizeBytes), shortID(it.ID))
	}
	return nil
}

// Status prints the upload queue with per-item progress.
func (a *App) Status(ctx context.Context) error {
	items := a.uploads.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No uploads this session.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFILE\tSIZE\tSTATE\tDETAIL")
	for _, it := range items {
		detail := ""
		switch {
		case it.State == upload.StateUploading:
			detail = fmt.Sprintf("%d%%", percent(it.BytesSent, it.SizeBytes))
		case it.RejectReason != "":
			detail = it.RejectReason
		case it.Err != nil:
			detail = it.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			shortID(it.ID), it.Filename, formatSize(it.SizeBytes), it.State, detail)
	}
	return w.Flush()
}

func (a *App) Retry(ctx context.Context, id string) error {
	full, ok := a.resolveItemID(id)
	if !ok {
		fmt.Fprintln(a.out, "No such upload:", id)
		return nil
	}
	if err := a.uploads.Retry(full); err != nil {
		a.report(ctx, err)
		return err
	}
	return nil
}

func (a *App) Cancel(ctx context.Context, id string) error {
	full, ok := a.resolveItemID(id)
	if !ok {
		fmt.Fprintln(a.out, "No such upload:", id)
		return nil
	}
	if err := a.uploads.Cancel(full); err != nil {
		a.report(ctx, err)
		return err
	}
	return nil
}

// resolveItemID accepts either a full item ID or the short prefix shown by
// the queue listing.
func (a *App) resolveItemID(id string) (string, bool) {
	if _, ok := a.uploads.Item(id); ok {
		return id, true
	}
	for _, it := range a.uploads.Items() {
		if shortID(it.ID) == id {
			return it.ID, true
		}
	}
	return "", false
}

// watchEvents drains the manager's event stream and narrates it. Progress
// is throttled to 10% steps; everything else prints as it happens. The
// loop ends when the manager closes the stream.
func (a *App) watchEvents() {
	lastStep := map[string]int64{}

	for ev := range a.uploads.Events() {
		switch ev.Type {
		case upload.EventRejected:
			if len(ev.ItemIDs) > 0 {
				fmt.Fprintf(a.out, "Rejected %d file(s): %s\n", len(ev.ItemIDs), ev.Reason)
			} else {
				fmt.Fprintf(a.out, "Rejected %s: %s\n", ev.Filename, ev.Reason)
			}
		case upload.EventProgress:
			it, ok := a.uploads.Item(ev.ItemID)
			if !ok || it.SizeBytes == 0 {
				continue
			}
			step := percent(ev.BytesSent, it.SizeBytes) / 10
			if step > lastStep[ev.ItemID] {
				lastStep[ev.ItemID] = step
				fmt.Fprintf(a.out, "%s: %d%%\n", ev.Filename, step*10)
			}
		case upload.EventSucceeded:
			fmt.Fprintf(a.out, "Uploaded %s\n", ev.Filename)
		case upload.EventFailed:
			fmt.Fprintf(a.out, "Upload of %s failed: %v (retry with 'retry %s')\n",
				ev.Filename, ev.Err, shortID(ev.ItemID))
			// A 401 mid-transfer tears the session down just like one on a
			// command would: every upload after it is doomed the same way.
			if errors.Is(ev.Err, common.ErrUnauthorized) && a.isLoggedIn() {
				a.report(context.Background(), ev.Err)
			}
		case upload.EventCancelled:
			fmt.Fprintf(a.out, "Cancelled %s\n", ev.Filename)
		}
	}
}
