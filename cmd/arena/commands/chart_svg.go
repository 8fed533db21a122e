package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/wonny/arena/internal/chart"
)

// writeSVG renders c into path
func writeSVG(path string, c chart.Chart) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := chart.RenderSVG(f, c); err != nil {
		if errors.Is(err, chart.ErrNotEnoughPoints) {
			return fmt.Errorf("not enough data to render %s", path)
		}
		return err
	}
	return nil
}
