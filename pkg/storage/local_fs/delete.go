package local_fs

import (
	"context"
	"os"

	"github.com/haierkeys/note-tree-service/pkg/fileurl"

	"github.com/pkg/errors"
)

func (p *LocalFS) Delete(ctx context.Context, pathKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(p.fullPath(fileurl.ObjectKey(p.Config.CustomPath, pathKey)))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "local_fs")
	}
	return nil
}
