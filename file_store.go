package ch2

import (
	"bufio"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
)

// FileStore writes every unit as one JSON-lines file in the output
// directory, which is created on Init if absent.
type FileStore struct {
	*StoreBase
	dir       string
	overwrite bool
}

func NewFileStore() *FileStore {
	return &FileStore{
		StoreBase: NewStoreBase(),
	}
}

func (self *FileStore) Init() error {
	p := self.GetProperties()
	dir := p.GetDefault(PropertyOutputDir, PropertyOutputDirDefault)
	overwrite, err := strconv.ParseBool(
		p.GetDefault(PropertyOutputOverwrite, PropertyOutputOverwriteDefault))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	self.dir = dir
	self.overwrite = overwrite
	return nil
}

func (self *FileStore) Cleanup() error {
	return nil
}

// Path returns the file a unit is written to.
func (self *FileStore) Path(unit Unit) string {
	return filepath.Join(self.dir, unit.Name())
}

// Save writes the unit to a temporary file and renames it into place, so
// a failed save never leaves a partial unit behind.
func (self *FileStore) Save(unit Unit, docs [][]byte) (err error) {
	if len(self.dir) == 0 {
		return ErrStoreClosed
	}
	path := self.Path(unit)
	if !self.overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrUnitExists)
		}
	}
	f, err := ioutil.TempFile(self.dir, "."+unit.Name()+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()
	w := bufio.NewWriter(f)
	for _, d := range docs {
		if _, err = w.Write(d); err != nil {
			return err
		}
	}
	if err = w.Flush(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
