// SPDX-License-Identifier: GPL-3.0-or-later
package folders

//go:generate mockgen -destination=folders_mocks_test.go -package=folders -source folders.go
import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/CrawX/go-report-triage/domain"
	"github.com/CrawX/go-report-triage/log"

	"github.com/sirupsen/logrus"
)

const DateFormat = "2006-01-02"

type folderCatalog interface {
	ListFolders(ctx context.Context) ([]domain.Folder, error)
	CreateFolder(ctx context.Context, name string) (domain.Folder, error)
}

// CreateError is returned when a destination folder could not be created. Callers must treat it as fatal
// since the classified mail would otherwise stay unfiled.
type CreateError struct {
	Name string
	Err  error
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("could not create folder %s: %v", e.Name, e.Err)
}

func (e *CreateError) Unwrap() error {
	return e.Err
}

type Router struct {
	catalog folderCatalog

	mu    sync.Mutex
	known map[string]domain.Folder

	l *logrus.Logger
}

func NewRouter(catalog folderCatalog, l *logrus.Logger) *Router {
	if l == nil {
		l = log.NullLogger()
	}
	return &Router{
		catalog: catalog,
		known:   map[string]domain.Folder{},
		l:       l,
	}
}

func Path(outcome domain.Outcome, date time.Time) string {
	return fmt.Sprintf("inbox/%s/%s", outcome, date.Format(DateFormat))
}

// ResolveOrCreate returns the folder for outcome and date, creating it on first use. Results are cached for the
// lifetime of the router so repeated calls do not hit the catalog again.
func (r *Router) ResolveOrCreate(ctx context.Context, outcome domain.Outcome, date time.Time) (domain.Folder, error) {
	name := Path(outcome, date)

	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.known[name]; ok {
		return f, nil
	}

	existing, err := r.catalog.ListFolders(ctx)
	if err != nil {
		return domain.Folder{}, fmt.Errorf("could not list folders: %w", err)
	}

	for _, f := range existing {
		if f.Name == name {
			r.l.WithFields(logrus.Fields{"folder": name, "id": f.Id}).Debug("Folder exists")
			r.known[name] = f
			return f, nil
		}
	}

	created, err := r.catalog.CreateFolder(ctx, name)
	if err != nil {
		return domain.Folder{}, &CreateError{Name: name, Err: err}
	}
	if len(created.Id) == 0 {
		return domain.Folder{}, &CreateError{Name: name, Err: fmt.Errorf("backend returned no folder id")}
	}

	r.l.WithFields(logrus.Fields{"folder": name, "id": created.Id}).Info("Created folder")
	r.known[name] = created
	return created, nil
}
