package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/lottery/internal/lottery"
)

// LoadFile reads a lottery catalog from path.
//
// A directory is loaded as a CUE package; a .cue file is compiled on its
// own; .yaml, .yml and .json files use the lottery catalog codec.
func LoadFile(path string) ([]lottery.Named, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
		v := cuecontext.New().CompileBytes(data, cue.Filename(path))
		return CompileCatalog(v)
	case ".yaml", ".yml", ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
		defer f.Close()

		c, err := lottery.DecodeCatalog(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return c.Lotteries, nil
	default:
		return nil, fmt.Errorf("unsupported catalog format %q: use .cue, .yaml, .yml or .json", filepath.Ext(path))
	}
}

// LoadDir loads every .cue file in dir as one CUE instance and compiles the
// resulting catalog.
func LoadDir(dir string) ([]lottery.Named, error) {
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", inst.Err)
	}

	v := cuecontext.New().BuildInstance(inst)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return CompileCatalog(v)
}
