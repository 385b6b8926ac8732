package files

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kalambet/deskhub/internal/collection"
)

// Upload is one file handed to the vault.
type Upload struct {
	Name string
	// Type is the media type; sniffed from Data when empty.
	Type string
	// Size defaults to len(Data). Set it when Data is omitted for large files.
	Size int64
	Data []byte
}

// Vault is the file organizer.
type Vault struct {
	store       *collection.Store[FileItem]
	ids         collection.IDProvider
	clock       collection.Clock
	inlineLimit int64
}

// NewVault creates a Vault. Files smaller than inlineLimit bytes keep their
// payload; a non-positive limit selects DefaultInlineLimit.
func NewVault(store *collection.Store[FileItem], ids collection.IDProvider, clock collection.Clock, inlineLimit int64) *Vault {
	if inlineLimit <= 0 {
		inlineLimit = DefaultInlineLimit
	}
	return &Vault{store: store, ids: ids, clock: clock, inlineLimit: inlineLimit}
}

// newItem builds the stored record for up. New files land in Personal.
func (v *Vault) newItem(id string, up Upload) FileItem {
	size := up.Size
	if size == 0 {
		size = int64(len(up.Data))
	}
	typ := up.Type
	if typ == "" && len(up.Data) > 0 {
		typ = DetectType(up.Data)
	}

	item := FileItem{
		ID:         id,
		Name:       up.Name,
		Size:       size,
		Type:       typ,
		Category:   Personal,
		UploadedAt: v.clock.Now().UnixMilli(),
	}
	if len(up.Data) > 0 {
		item.Preview = Preview(typ, up.Data)
	}
	if size < v.inlineLimit && int64(len(up.Data)) == size {
		item.Data = EncodeDataURL(typ, up.Data)
	}
	return item
}

// Upload appends every upload in one write and returns the stored records.
// Uploads with a blank name are skipped.
func (v *Vault) Upload(uploads ...Upload) ([]FileItem, error) {
	var added []FileItem
	err := v.store.Apply(func(items []FileItem) ([]FileItem, error) {
		next := items
		for _, up := range uploads {
			if collection.Blank(up.Name) {
				continue
			}
			id, err := collection.FreshID(v.ids, next)
			if err != nil {
				return nil, err
			}
			item := v.newItem(id, up)
			if err := collection.Validate(item); err != nil {
				return nil, fmt.Errorf("file %q: %w", up.Name, err)
			}
			next = collection.Append(next, item)
			added = append(added, item)
		}
		if len(added) == 0 {
			return nil, fmt.Errorf("%w: no files to upload", collection.ErrRejected)
		}
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// maxConcurrentReads bounds parallel file reads in UploadPaths.
const maxConcurrentReads = 4

// UploadPaths reads the files at paths concurrently and uploads them in
// argument order. Bytes of files at or above the inline limit are not read.
func (v *Vault) UploadPaths(ctx context.Context, paths ...string) ([]FileItem, error) {
	uploads := make([]Upload, len(paths))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)

	for i, p := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			up, err := v.readUpload(p)
			if err != nil {
				return err
			}
			uploads[i] = up
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return v.Upload(uploads...)
}

func (v *Vault) readUpload(path string) (Upload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Upload{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return Upload{}, fmt.Errorf("reading %s: is a directory", path)
	}

	up := Upload{Name: filepath.Base(path), Size: info.Size()}
	if info.Size() >= v.inlineLimit {
		if up.Type, err = DetectFileType(path); err != nil {
			return Upload{}, fmt.Errorf("detecting type of %s: %w", path, err)
		}
		return up, nil
	}

	if up.Data, err = os.ReadFile(path); err != nil {
		return Upload{}, fmt.Errorf("reading %s: %w", path, err)
	}
	up.Size = int64(len(up.Data))
	return up, nil
}

// Rename changes the display name of file id. Blank names are rejected.
func (v *Vault) Rename(id, name string) (FileItem, error) {
	if collection.Blank(name) {
		return FileItem{}, fmt.Errorf("%w: name is empty", collection.ErrRejected)
	}
	return v.update(id, func(f FileItem) FileItem {
		f.Name = strings.TrimSpace(name)
		return f
	})
}

// SetCategory moves file id to c.
func (v *Vault) SetCategory(id string, c Category) (FileItem, error) {
	if _, err := ParseCategory(string(c)); err != nil {
		return FileItem{}, fmt.Errorf("%w: %v", collection.ErrRejected, err)
	}
	return v.update(id, func(f FileItem) FileItem {
		f.Category = c
		return f
	})
}

func (v *Vault) update(id string, fn func(FileItem) FileItem) (FileItem, error) {
	var updated FileItem
	err := v.store.Update(id, func(f FileItem) FileItem {
		updated = fn(f)
		return updated
	})
	return updated, err
}

// Delete removes file id. Deleting an absent id is a no-op.
func (v *Vault) Delete(id string) (bool, error) {
	return v.store.Delete(id)
}

// Download returns file id with its decoded bytes, or ErrNoPayload for files
// stored without them.
func (v *Vault) Download(id string) (FileItem, []byte, error) {
	f, err := v.store.Get(id)
	if err != nil {
		return FileItem{}, nil, err
	}
	data, err := f.Payload()
	if err != nil {
		return f, nil, fmt.Errorf("file %q: %w", f.Name, err)
	}
	return f, data, nil
}

// List returns the files matching f.
func (v *Vault) List(f Filter) ([]FileItem, error) {
	items, err := v.store.All()
	if err != nil {
		return nil, err
	}
	return f.Apply(items), nil
}

// Stats summarises the whole vault.
func (v *Vault) Stats() (Stats, error) {
	items, err := v.store.All()
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(items), nil
}
