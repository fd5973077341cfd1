package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/tripvault/internal/category"
	"github.com/dmitrijs2005/tripvault/internal/client/client"
	"github.com/dmitrijs2005/tripvault/internal/client/models"
	"github.com/dmitrijs2005/tripvault/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/tripvault/internal/client/services"
	"github.com/dmitrijs2005/tripvault/internal/common"
	"github.com/dmitrijs2005/tripvault/internal/filex"
	"github.com/dmitrijs2005/tripvault/internal/vaultcrypto"
)

// describe turns an error into the line shown to the user.
func describe(err error) string {
	switch {
	case errors.Is(err, vaultcrypto.ErrDecryptionFailed):
		return "incorrect passphrase or corrupted file"
	case errors.Is(err, vaultcrypto.ErrMissingPassphrase), errors.Is(err, ErrEmptyPassphrase):
		return "passphrase must not be empty"
	case errors.Is(err, ErrPassphraseMismatch):
		return ErrPassphraseMismatch.Error()
	case errors.Is(err, vaultcrypto.ErrInvalidMetadata):
		return "document encryption metadata is damaged"
	case errors.Is(err, vaultcrypto.ErrCryptoUnavailable):
		return "secure random source unavailable on this machine"
	case errors.Is(err, filex.ErrTooLarge):
		return "file is larger than " + humanize.IBytes(uint64(services.MaxDocumentSize))
	case errors.Is(err, services.ErrMissingTrip):
		return "select a trip first: trip <id>"
	case errors.Is(err, services.ErrNeedsServer):
		return err.Error() + ", try again when online"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again when online"
	case errors.Is(err, client.ErrUnauthorized):
		return "not authorized, please login again"
	case errors.Is(err, client.ErrNotFound):
		return "document not found"
	case errors.Is(err, client.ErrRateLimited):
		return "too many requests, try again shortly"
	default:
		return err.Error()
	}
}

func (a *App) report(err error) error {
	fmt.Fprintln(a.w(), "Error:", describe(err))
	return err
}

// argOrPrompt returns args[0] or asks for the value.
func (a *App) argOrPrompt(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return getSimpleText(a.reader, prompt, a.w())
}

// Trip shows or switches the current trip. The choice survives restarts.
func (a *App) Trip(ctx context.Context, args []string) error {
	if len(args) == 0 {
		if a.tripID == "" {
			fmt.Fprintln(a.w(), "No trip selected")
		} else {
			fmt.Fprintln(a.w(), "Current trip:", a.tripID)
		}
		return nil
	}

	a.tripID = strings.TrimSpace(args[0])
	a.listed = nil
	if a.settings != nil {
		if err := a.settings.Set(ctx, metadata.KeyTrip, []byte(a.tripID)); err != nil {
			log.Printf("save current trip: %v", err)
		}
	}
	fmt.Fprintln(a.w(), "Current trip:", a.tripID)
	return nil
}

// Categories prints the accepted category names.
func (a *App) Categories(ctx context.Context) error {
	names := make([]string, 0, len(category.All()))
	for _, c := range category.All() {
		names = append(names, c.String())
	}
	fmt.Fprintln(a.w(), strings.Join(names, ", "))
	return nil
}

func readCategory(s string) (category.Category, error) {
	if strings.TrimSpace(s) == "" {
		return category.Other, nil
	}
	return category.Parse(s)
}

func detectMimeType(name string, data []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return http.DetectContentType(data)
}

// Upload encrypts a local file with a fresh passphrase and stores it.
func (a *App) Upload(ctx context.Context, args []string) error {
	path, err := a.argOrPrompt(args, "Path to file")
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return a.report(err)
	}
	if info.IsDir() {
		return a.report(fmt.Errorf("%s is a directory", path))
	}
	if info.Size() > services.MaxDocumentSize {
		return a.report(fmt.Errorf("%w: %s, limit %s", services.ErrTooLarge,
			humanize.IBytes(uint64(info.Size())), humanize.IBytes(uint64(services.MaxDocumentSize))))
	}

	title, err := getSimpleText(a.reader, fmt.Sprintf("Title [%s]", info.Name()), a.w())
	if err != nil {
		return err
	}
	if title == "" {
		title = info.Name()
	}

	catText, err := getSimpleText(a.reader, "Category (passport, insurance, visa, id, medical, other) [other]", a.w())
	if err != nil {
		return err
	}
	cat, err := readCategory(catText)
	if err != nil {
		return a.report(err)
	}

	passphrase, err := getNewPassphrase(a.w())
	if err != nil {
		return a.report(err)
	}
	defer common.WipeByteArray(passphrase)

	data, err := filex.ReadLimited(path, services.MaxDocumentSize)
	if err != nil {
		return a.report(err)
	}
	defer common.WipeByteArray(data)

	doc, err := a.vaultService.Upload(ctx, services.UploadRequest{
		TripID:   a.tripID,
		Title:    title,
		Category: cat,
		FileName: info.Name(),
		MimeType: detectMimeType(info.Name(), data),
		Data:     data,
	}, passphrase)
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintf(a.w(), "Uploaded %q (%s) as %s\n", doc.Title, doc.Category, doc.ID)
	fmt.Fprintln(a.w(), "Keep the passphrase safe: it cannot be recovered.")
	return nil
}

// List prints the documents of the current trip, newest first.
func (a *App) List(ctx context.Context) error {
	docs, offline, err := a.vaultService.List(ctx, a.tripID)
	if err != nil {
		return a.report(err)
	}
	if offline {
		fmt.Fprintln(a.w(), "(offline: showing cached list)")
	}
	if len(docs) == 0 {
		fmt.Fprintln(a.w(), "No documents")
		return nil
	}

	a.listed = make(map[string]*models.Document, len(docs))
	tw := tabwriter.NewWriter(a.w(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tFILE\tSIZE\tADDED")
	for _, d := range docs {
		a.listed[d.ID] = d
		added := "-"
		if !d.CreatedAt.IsZero() {
			added = humanize.Time(d.CreatedAt)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.Title, d.Category, d.FileName, humanize.IBytes(uint64(d.SizeBytes)), added)
	}
	return tw.Flush()
}

// Open downloads, decrypts and saves a document into the download directory.
func (a *App) Open(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, "Document id")
	if err != nil {
		return err
	}

	passphrase, err := getPassphrase(a.w(), "Document passphrase: ")
	if err != nil {
		return a.report(err)
	}
	defer common.WipeByteArray(passphrase)

	opened, err := a.vaultService.Open(ctx, id, passphrase)
	if err != nil {
		return a.report(err)
	}

	dir := "downloads"
	if a.config != nil && a.config.DownloadDir != "" {
		dir = a.config.DownloadDir
	}
	dir, err = filex.EnsureDir(dir)
	if err != nil {
		common.WipeByteArray(opened.Data)
		return a.report(err)
	}

	path, err := a.vaultService.Save(dir, opened)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.w(), "Saved %q to %s\n", opened.Document.Title, path)
	return nil
}

// Rename changes a document's title and category. Empty answers keep the
// values seen in the last listing.
func (a *App) Rename(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, "Document id")
	if err != nil {
		return err
	}
	current := a.listed[id]

	titlePrompt, catPrompt := "New title", "Category [other]"
	if current != nil {
		titlePrompt = fmt.Sprintf("New title [%s]", current.Title)
		catPrompt = fmt.Sprintf("Category [%s]", current.Category)
	}

	title, err := getSimpleText(a.reader, titlePrompt, a.w())
	if err != nil {
		return err
	}
	if title == "" && current != nil {
		title = current.Title
	}

	catText, err := getSimpleText(a.reader, catPrompt, a.w())
	if err != nil {
		return err
	}
	var cat category.Category
	if catText == "" && current != nil {
		cat = current.Category
	} else if cat, err = readCategory(catText); err != nil {
		return a.report(err)
	}

	doc, err := a.vaultService.Rename(ctx, id, title, cat)
	if err != nil {
		return a.report(err)
	}
	if a.listed != nil {
		a.listed[doc.ID] = doc
	}
	fmt.Fprintf(a.w(), "Updated %s: %q (%s)\n", doc.ID, doc.Title, doc.Category)
	return nil
}

// Delete removes a document after confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, "Document id")
	if err != nil {
		return err
	}

	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete %s? This cannot be undone (y/N)", id), a.w())
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.w(), "Cancelled")
		return nil
	}

	if err := a.vaultService.Delete(ctx, id); err != nil {
		return a.report(err)
	}
	delete(a.listed, id)
	fmt.Fprintln(a.w(), "Deleted", id)
	return nil
}
