package typoscan

import (
	"os"

	"github.com/varalys/typoscan/internal/check"
	"github.com/varalys/typoscan/internal/config"
	"github.com/varalys/typoscan/internal/engine"
	"github.com/varalys/typoscan/internal/exitcode"
)

// runDumpConfig writes the effective config of path's WorkingContext,
// defaults included, as YAML.
func (o *options) runDumpConfig(policies *config.Engine, cwd, path string) error {
	wd, err := engine.ResolveWorkingDir(path, cwd, false)
	if err != nil {
		return err
	}
	cfg, err := policies.LoadConfig(wd)
	if err != nil {
		return exitcode.Wrap(exitcode.Config, err)
	}
	full, err := config.Defaults().Update(cfg)
	if err != nil {
		return exitcode.Wrap(exitcode.Config, err)
	}

	if o.dumpConfig == check.StdinPath {
		return exitcode.WrapIO(config.Dump(o.stdout, full))
	}
	f, err := os.Create(o.dumpConfig)
	if err != nil {
		return exitcode.WrapIO(err)
	}
	if err := config.Dump(f, full); err != nil {
		f.Close()
		return exitcode.WrapIO(err)
	}
	return exitcode.WrapIO(f.Close())
}
