package typoscan

import (
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/varalys/typoscan/internal/config"
	"github.com/varalys/typoscan/internal/engine"
	"github.com/varalys/typoscan/internal/exitcode"
)

// runTypeList prints the file type table of path's WorkingContext.
func (o *options) runTypeList(policies *config.Engine, cwd, path string) error {
	wd, err := engine.ResolveWorkingDir(path, cwd, false)
	if err != nil {
		return err
	}
	if err := policies.InitDir(wd); err != nil {
		return exitcode.Wrap(exitcode.Config, err)
	}

	rows := make([][]string, 0)
	for _, t := range policies.FileTypes(wd) {
		rows = append(rows, []string{t.Name, strings.Join(t.Globs, ", ")})
	}
	table := tablewriter.NewWriter(o.stdout)
	table.Header("Type", "Globs")
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return exitcode.WrapIO(table.Render())
}
