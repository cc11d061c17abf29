package cli

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/dmitrijs2005/mindcare/internal/filex"
	"github.com/dmitrijs2005/mindcare/internal/netx"
)

// Export asks the server for a data export and downloads the bundle into
// the configured export directory.
func (a *App) Export(ctx context.Context, _ []string) error {
	res, err := a.api.Export(ctx)
	if err != nil {
		return err
	}

	dir, err := filex.EnsureDir(a.config.ExportDir)
	if err != nil {
		return err
	}

	f, err := filex.CreatePrivate(dir, path.Base(res.Key))
	if err != nil {
		return err
	}

	n, err := netx.DownloadFromPresignedURL(ctx, a.download, res.URL, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return err
	}

	fmt.Fprintf(a.out, "Export saved to %s (%d bytes)\n", f.Name(), n)
	fmt.Fprintf(a.out, "Download link valid until %s\n", res.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}
