package tools

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/readfeed/readfeed-mcp/internal/fileaccess"
	"github.com/readfeed/readfeed-mcp/internal/ingest"
	"github.com/readfeed/readfeed-mcp/internal/skills"
)

// debugAssetDir is where resized image copies land, relative to the working
// directory. Writes there are diagnostic only and never fail a read.
const debugAssetDir = ".readfeed/resized"

// State carries the configuration and bookkeeping shared by all tool handlers.
// Access is synchronized via the embedded RWMutex; the read pipeline itself is
// stateless, so concurrent reads only contend on the mtime map.
type State struct {
	Mu sync.RWMutex

	// FS is the injected file source. Production uses the local filesystem;
	// tests swap in an in-memory implementation.
	FS fileaccess.FS

	// WorkingDir anchors relative request paths and the debug asset dir.
	WorkingDir string

	// AutoResize enables downsampling of oversized images before emission.
	AutoResize bool

	// Skills configures skill-manifest discovery for the list_skills tool.
	Skills skills.Loader

	// ReadFiles tracks the modification times of files that have been read,
	// used to detect when file content may have changed between operations.
	ReadFiles map[string]time.Time
}

// globalState is the singleton instance of State for the tools package,
// configured once at startup by the command entrypoint.
var globalState *State

func init() {
	globalState = NewState()
}

func NewState() *State {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return &State{
		FS:         fileaccess.Local{},
		WorkingDir: wd,
		AutoResize: true,
		ReadFiles:  make(map[string]time.Time),
	}
}

// GetState returns the global State singleton for the tools package.
func GetState() *State {
	return globalState
}

// reader builds the read orchestrator from the current configuration.
func (s *State) reader() *ingest.Reader {
	return &ingest.Reader{
		FS:         s.FS,
		WorkingDir: s.WorkingDir,
		AutoResize: s.AutoResize,
		Images: ingest.Ingestor{
			DebugDir: filepath.Join(s.WorkingDir, filepath.FromSlash(debugAssetDir)),
		},
	}
}
