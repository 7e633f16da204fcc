package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-cellbook/pkg/app"
	"github.com/mattsolo1/grove-cellbook/pkg/assistant"
	"github.com/mattsolo1/grove-cellbook/pkg/models"
	"github.com/mattsolo1/grove-cellbook/pkg/notebook"
	"github.com/mattsolo1/grove-cellbook/pkg/presence"
	"github.com/mattsolo1/grove-cellbook/pkg/runner"
	"github.com/mattsolo1/grove-cellbook/pkg/search"
	"github.com/mattsolo1/grove-cellbook/pkg/storage"
	"github.com/mattsolo1/grove-cellbook/pkg/tree"
)

var (
	// ErrNotFound is returned when a notebook, cell or tree entry id is unknown
	ErrNotFound = errors.New("not found")
	// ErrWrongCellType is returned when an operation does not apply to the cell
	ErrWrongCellType = errors.New("wrong cell type")
)

// Service is the core notebook service. It owns the application state and
// replaces it wholesale with the result of each transition.
type Service struct {
	mu    sync.Mutex
	state app.State

	editor    *notebook.Editor
	store     storage.Store
	Index     *search.Index
	runners   *runner.Registry
	assistant assistant.Service
	presence  presence.Source
	persister *persister
	log       logrus.FieldLogger
	Config    *Config

	newID func() string
	now   func() time.Time
}

// Config holds service configuration
type Config struct {
	DataDir              string
	StorageDriver        string
	Editor               string
	DefaultLanguage      string
	Runner               runner.Config
	AssistantDelayScale  float64
	PresenceInterval     time.Duration
	WhiteboardWidth      int
	WhiteboardHeight     int
	WhiteboardMaxHistory int
	ExportFrontmatter    bool
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() *Config {
	return &Config{
		StorageDriver:        storage.DriverCGo,
		DefaultLanguage:      models.DefaultLanguage,
		Runner:               runner.DefaultConfig(),
		AssistantDelayScale:  1,
		PresenceInterval:     presence.DefaultInterval,
		WhiteboardWidth:      800,
		WhiteboardHeight:     400,
		WhiteboardMaxHistory: 50,
	}
}

// Option customizes a Service
type Option func(*Service)

// WithStore uses store instead of opening the sqlite database
func WithStore(store storage.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithIndex sets the search index
func WithIndex(idx *search.Index) Option {
	return func(s *Service) {
		s.Index = idx
	}
}

// WithRunners replaces the code runner registry
func WithRunners(r *runner.Registry) Option {
	return func(s *Service) {
		s.runners = r
	}
}

// WithAssistant replaces the assistant backend
func WithAssistant(a assistant.Service) Option {
	return func(s *Service) {
		s.assistant = a
	}
}

// WithPresence replaces the presence source
func WithPresence(p presence.Source) Option {
	return func(s *Service) {
		s.presence = p
	}
}

// WithLogger sets the diagnostics logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// WithClock sets the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDFunc sets the id generator for notebooks, folders and cells
func WithIDFunc(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

// New creates the service and loads the persisted state
func New(config *Config, opts ...Option) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	s := &Service{
		Config: config,
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		l := logrus.New()
		l.SetOutput(os.Stderr)
		l.SetLevel(logrus.WarnLevel)
		s.log = l
	}

	if s.store == nil {
		store, err := storage.Open(config.DataDir, config.StorageDriver)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		s.store = store
		if s.Index == nil {
			idx, err := search.NewIndex(store.DB())
			if err != nil {
				store.Close()
				return nil, fmt.Errorf("create index: %w", err)
			}
			s.Index = idx
		}
	}

	lang := config.DefaultLanguage
	if lang == "" {
		lang = models.DefaultLanguage
	}
	s.editor = notebook.NewEditor(
		notebook.WithIDFunc(s.newID),
		notebook.WithClock(s.now),
		notebook.WithDefaultLanguage(lang),
	)
	if s.runners == nil {
		s.runners = runner.NewRegistry(config.Runner)
	}
	if s.assistant == nil {
		s.assistant = assistant.NewSimulated(config.AssistantDelayScale)
	}
	if s.presence == nil {
		s.presence = presence.NewRandomSource(presence.WithInterval(config.PresenceInterval))
	}

	s.state = storage.Load(context.Background(), s.store, s.log, s.now())
	if err := s.state.Validate(); err != nil {
		s.log.WithError(err).Warn("Persisted state is inconsistent")
	}
	if s.Index != nil {
		if err := s.Index.Reindex(context.Background(), s.state.Notebooks); err != nil {
			s.log.WithError(err).Warn("Failed to build search index")
		}
	}
	s.persister = newPersister(s.store, s.log)
	return s, nil
}

// Close flushes pending writes and closes the store
func (s *Service) Close() error {
	s.mu.Lock()
	s.persister.close()
	s.mu.Unlock()
	if s.Index != nil {
		_ = s.Index.Close()
	}
	return s.store.Close()
}

// State returns the current application state
func (s *Service) State() app.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Runners returns the code runner registry
func (s *Service) Runners() *runner.Registry {
	return s.runners
}

// Presence returns the collaborator presence source
func (s *Service) Presence() presence.Source {
	return s.presence
}

// commit applies a transition and schedules persistence
func (s *Service) commit(fn func(app.State) (app.State, error)) (app.State, error) {
	s.mu.Lock()
	next, err := fn(s.state)
	if err != nil {
		s.mu.Unlock()
		return s.state, err
	}
	s.state = next
	s.persister.schedule(next)
	s.mu.Unlock()
	return next, nil
}

// Tree returns the file tree, filtered by name when query is not empty
func (s *Service) Tree(query string) []tree.Entry {
	return tree.Filter(s.State().Files, query)
}

// Notebook returns a notebook by id
func (s *Service) Notebook(id string) (models.Notebook, error) {
	nb, ok := s.State().Notebook(id)
	if !ok {
		return models.Notebook{}, fmt.Errorf("notebook %q: %w", id, ErrNotFound)
	}
	return nb, nil
}

// FolderPath returns the slash-separated folder path of an entry
func (s *Service) FolderPath(id string) string {
	path := tree.Path(s.State().Files, id)
	var out string
	for _, e := range path {
		if !e.IsFolder() {
			continue
		}
		if out != "" {
			out += "/"
		}
		out += e.Name
	}
	return out
}

// CreateNotebook adds a notebook and its file entry. An empty name gets a
// timestamped default.
func (s *Service) CreateNotebook(name, parentID string) (models.Notebook, error) {
	now := s.now()
	if name == "" {
		name = fmt.Sprintf("New File %d", now.UnixMilli())
	}
	id := s.newID()
	st, err := s.commit(func(st app.State) (app.State, error) {
		return st.CreateFile(id, name, parentID, now), nil
	})
	if err != nil {
		return models.Notebook{}, err
	}
	nb, _ := st.Notebook(id)
	s.index(nb)
	return nb, nil
}

// CreateFolder adds a folder. An empty name gets a timestamped default.
func (s *Service) CreateFolder(name, parentID string) (tree.Entry, error) {
	now := s.now()
	if name == "" {
		name = fmt.Sprintf("New Folder %d", now.UnixMilli())
	}
	id := s.newID()
	st, err := s.commit(func(st app.State) (app.State, error) {
		return st.CreateFolder(id, name, parentID, now), nil
	})
	if err != nil {
		return tree.Entry{}, err
	}
	e, _ := tree.Find(st.Files, id)
	return e, nil
}

func requireEntry(st app.State, id string) error {
	if _, ok := tree.Find(st.Files, id); !ok {
		return fmt.Errorf("entry %q: %w", id, ErrNotFound)
	}
	return nil
}

// Rename renames a file or folder; a file's notebook is renamed with it
func (s *Service) Rename(id, name string) error {
	st, err := s.commit(func(st app.State) (app.State, error) {
		if err := requireEntry(st, id); err != nil {
			return st, err
		}
		return st.Rename(id, name), nil
	})
	if err != nil {
		return err
	}
	if nb, ok := st.Notebook(id); ok {
		s.index(nb)
	}
	return nil
}

// Delete removes a file or folder and returns the ids of the notebooks that
// went with it.
func (s *Service) Delete(id string) ([]string, error) {
	var removed []string
	_, err := s.commit(func(st app.State) (app.State, error) {
		if err := requireEntry(st, id); err != nil {
			return st, err
		}
		_, removed = tree.Remove(st.Files, id)
		return st.Delete(id), nil
	})
	if err != nil {
		return nil, err
	}
	if s.Index != nil {
		for _, nid := range removed {
			if err := s.Index.RemoveNotebook(context.Background(), nid); err != nil {
				s.log.WithError(err).WithField("notebook", nid).Warn("Failed to remove notebook from index")
			}
		}
	}
	return removed, nil
}

// Open shows a notebook in the editor
func (s *Service) Open(id string) (models.Notebook, error) {
	st, err := s.commit(func(st app.State) (app.State, error) {
		if _, ok := st.Notebook(id); !ok {
			return st, fmt.Errorf("notebook %q: %w", id, ErrNotFound)
		}
		return st.Open(id), nil
	})
	if err != nil {
		return models.Notebook{}, err
	}
	nb, _ := st.OpenNotebook()
	return nb, nil
}

// CloseEditor hides the editor
func (s *Service) CloseEditor() {
	_, _ = s.commit(func(st app.State) (app.State, error) {
		return st.Close(), nil
	})
}

// Save stamps a notebook as modified now. An empty id saves the open one.
func (s *Service) Save(id string) (models.Notebook, error) {
	now := s.now()
	st, err := s.commit(func(st app.State) (app.State, error) {
		if id == "" {
			id = st.OpenNotebookID
		}
		if _, ok := st.Notebook(id); !ok {
			return st, fmt.Errorf("notebook %q: %w", id, ErrNotFound)
		}
		return st.Open(id).Save(now), nil
	})
	if err != nil {
		return models.Notebook{}, err
	}
	nb, _ := st.Notebook(id)
	s.index(nb)
	return nb, nil
}

// ToggleDarkMode flips the theme and returns the new value
func (s *Service) ToggleDarkMode() bool {
	st, _ := s.commit(func(st app.State) (app.State, error) {
		return st.ToggleDarkMode(), nil
	})
	return st.DarkMode
}

// DarkMode reports the theme flag
func (s *Service) DarkMode() bool {
	return s.State().DarkMode
}

// index refreshes one notebook in the search index
func (s *Service) index(nb models.Notebook) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexNotebook(context.Background(), nb); err != nil {
		s.log.WithError(err).WithField("notebook", nb.ID).Warn("Failed to index notebook")
	}
}

// Search looks up cells and notebook names
func (s *Service) Search(ctx context.Context, query string, options ...SearchOption) ([]search.Hit, error) {
	opts := &searchOptions{
		limit: 50,
	}
	for _, opt := range options {
		opt(opts)
	}
	if s.Index == nil {
		return nil, errors.New("search index is not available")
	}
	return s.Index.Search(ctx, query, &search.Options{
		NotebookID: opts.notebookID,
		Type:       opts.cellType,
		Limit:      opts.limit,
	})
}

// openInEditor opens a file in the configured editor
func (s *Service) openInEditor(path string) error {
	editor := s.Config.Editor
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vim" // fallback
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

type searchOptions struct {
	notebookID string
	cellType   string
	limit      int
}

// SearchOption narrows a search
type SearchOption func(*searchOptions)

// InNotebook limits results to one notebook
func InNotebook(id string) SearchOption {
	return func(o *searchOptions) {
		o.notebookID = id
	}
}

// OfType limits results to one cell type
func OfType(t models.CellType) SearchOption {
	return func(o *searchOptions) {
		o.cellType = string(t)
	}
}

// WithLimit caps the number of results
func WithLimit(limit int) SearchOption {
	return func(o *searchOptions) {
		if limit > 0 {
			o.limit = limit
		}
	}
}
