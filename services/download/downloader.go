package download

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"

	"tenderdesk/models"
	"tenderdesk/utils"
)

const fetchTimeout = 2 * time.Minute

// Session exposes the authentication state the downloader needs.
type Session interface {
	IsAuthenticated() bool
	Token() string
}

// LinkProvider obtains short-lived signed URLs from the portal backend.
type LinkProvider interface {
	SecureDownloadLink(ctx context.Context, token string, docType models.DocumentType, id int64) (models.DownloadLink, error)
}

// History records finished download attempts. Recording failures never
// fail the download itself.
type History interface {
	RecordAttempt(ctx context.Context, docType models.DocumentType, id int64, filename, outcome, detail string) error
}

// Downloader converts a (documentType, documentId) pair into locally saved
// bytes without the long-lived bearer token ever appearing in a shareable
// URL. Every invocation is independent: no retries, no link reuse.
type Downloader struct {
	session Session
	links   LinkProvider
	fetch   *http.Client
	fs      afero.Fs
	dir     string
	history History
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithFs sets the filesystem downloads are written to.
func WithFs(fs afero.Fs) Option {
	return func(d *Downloader) { d.fs = fs }
}

// WithHTTPClient sets the client used for the unauthenticated byte fetch.
func WithHTTPClient(hc *http.Client) Option {
	return func(d *Downloader) { d.fetch = hc }
}

// WithHistory sets an attempt recorder.
func WithHistory(h History) Option {
	return func(d *Downloader) { d.history = h }
}

// New creates a Downloader saving files into dir.
func New(session Session, links LinkProvider, dir string, opts ...Option) *Downloader {
	d := &Downloader{
		session: session,
		links:   links,
		fetch:   &http.Client{Timeout: fetchTimeout},
		fs:      afero.NewOsFs(),
		dir:     dir,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Result describes a finished download.
type Result struct {
	Path     string
	Filename string
	Size     int64
}

// Download runs the blob strategy: request a signed link with the bearer
// token, then fetch the bytes from the signed URL without any bearer
// header (the URL itself embeds the capability), and save them locally.
func (d *Downloader) Download(ctx context.Context, docType models.DocumentType, id int64) (*Result, error) {
	link, err := d.link(ctx, docType, id)
	if err != nil {
		d.record(ctx, docType, id, "", "failed", err.Error())
		return nil, err
	}

	result, ferr := d.fetchBlob(ctx, link, id)
	if ferr != nil {
		d.record(ctx, docType, id, link.SuggestedFilename(id), "failed", ferr.Error())
		return nil, ferr
	}

	d.record(ctx, docType, id, result.Filename, "completed", "")
	return result, nil
}

// Link runs the navigation strategy: it returns the signed URL for the
// caller to open directly. The transfer outcome cannot be observed.
func (d *Downloader) Link(ctx context.Context, docType models.DocumentType, id int64) (models.DownloadLink, error) {
	link, err := d.link(ctx, docType, id)
	if err != nil {
		d.record(ctx, docType, id, "", "failed", err.Error())
		return models.DownloadLink{}, err
	}
	d.record(ctx, docType, id, link.SuggestedFilename(id), "link_issued", "")
	return link, nil
}

// link enforces the auth precondition and obtains a fresh signed URL.
func (d *Downloader) link(ctx context.Context, docType models.DocumentType, id int64) (models.DownloadLink, error) {
	token := d.session.Token()
	if !d.session.IsAuthenticated() || token == "" {
		// No network call is attempted without a valid session.
		return models.DownloadLink{}, &Error{Kind: KindAuthenticationRequired}
	}

	link, err := d.links.SecureDownloadLink(ctx, token, docType, id)
	if err != nil {
		return models.DownloadLink{}, classifyLinkError(err)
	}
	return link, nil
}

// fetchBlob issues the second, unauthenticated GET and materializes the
// bytes on disk. A link that expired between the two steps surfaces here
// as a plain DownloadFailed.
func (d *Downloader) fetchBlob(ctx context.Context, link models.DownloadLink, id int64) (*Result, error) {
	if err := utils.ValidateDownloadURL(link.URL); err != nil {
		return nil, &Error{Kind: KindInvalidServerResponse, Err: err}
	}
	fetchURL, err := utils.EncodeURLWithSpaces(link.URL)
	if err != nil {
		return nil, &Error{Kind: KindInvalidServerResponse, Err: fmt.Errorf("bad download url: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindDownloadFailed, Err: fmt.Errorf("build fetch request: %w", err)}
	}
	// Deliberately no Authorization header: the signed URL carries its own
	// short-lived capability token.

	resp, err := d.fetch.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindDownloadFailed, Err: fmt.Errorf("fetch bytes: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Kind: KindDownloadFailed, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindDownloadFailed, Err: fmt.Errorf("read bytes: %w", err)}
	}

	filename := d.localFilename(link, id, data)
	dest := filepath.Join(d.dir, filename)
	if err := d.save(dest, data); err != nil {
		return nil, &Error{Kind: KindDownloadFailed, Err: err}
	}

	return &Result{Path: dest, Filename: filename, Size: int64(len(data))}, nil
}

// localFilename picks a safe local name: the backend's suggestion when
// present, otherwise document-<id> with an extension sniffed from the bytes.
func (d *Downloader) localFilename(link models.DownloadLink, id int64, data []byte) string {
	name := utils.SanitizeFilename(link.SuggestedFilename(id))
	if path.Ext(name) == "" && link.Filename == "" {
		if ext := mimetype.Detect(data).Extension(); ext != "" {
			name += ext
		}
	}
	return name
}

// save writes data through a temp file and rename so a partially written
// file never sits at the final path.
func (d *Downloader) save(dest string, data []byte) error {
	if d.dir != "" {
		if err := d.fs.MkdirAll(d.dir, 0o755); err != nil {
			return fmt.Errorf("create download dir: %w", err)
		}
	}

	tmp := dest + ".part"
	if err := afero.WriteFile(d.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write download: %w", err)
	}
	if err := d.fs.Rename(tmp, dest); err != nil {
		_ = d.fs.Remove(tmp)
		return fmt.Errorf("finalize download: %w", err)
	}
	return nil
}

func (d *Downloader) record(ctx context.Context, docType models.DocumentType, id int64, filename, outcome, detail string) {
	if d.history == nil {
		return
	}
	if err := d.history.RecordAttempt(ctx, docType, id, filename, outcome, detail); err != nil {
		log.Printf("[download] record attempt failed (ignored): %v", err)
	}
}

// Request identifies one document for a batch download.
type Request struct {
	Type models.DocumentType
	ID   int64
}

// BatchResult pairs a batch request with its outcome.
type BatchResult struct {
	Request Request
	Result  *Result
	Err     error
}

// DownloadAll fetches several documents concurrently. Each document runs
// as an independent Download invocation with its own classification;
// results come back in request order.
func (d *Downloader) DownloadAll(ctx context.Context, reqs []Request, workers int) []BatchResult {
	if workers <= 0 {
		workers = 3
	}

	results := make([]BatchResult, len(reqs))
	p := pool.New().WithMaxGoroutines(workers)
	for i, req := range reqs {
		p.Go(func() {
			res, err := d.Download(ctx, req.Type, req.ID)
			results[i] = BatchResult{Request: req, Result: res, Err: err}
		})
	}
	p.Wait()
	return results
}
