package vaultfs

import (
	"bytes"
	"errors"
	"os"
	"path"
	"time"

	"go4.org/wkfs"

	"github.com/signgate/signgate/server/config"
	"github.com/signgate/signgate/server/helpers/vault"
)

// Register the /vault/ filesystem as a well-known filesystem.
// Without a usable vault configuration every access fails with the reason.
func Register(vc *config.Vault) {
	wkfs.RegisterFS(vault.Prefix, newFS(vc))
}

func newFS(vc *config.Vault) *vaultFS {
	if vc == nil || vc.Address == "" {
		return &vaultFS{err: errors.New("no vault configuration found")}
	}
	client, err := vault.NewClient(vc.Address, vc.Token)
	if err != nil {
		return &vaultFS{err: err}
	}
	return &vaultFS{client: client}
}

type vaultFS struct {
	err    error
	client *vault.Client
}

func (fs *vaultFS) read(name string) (string, error) {
	if fs.err != nil {
		return "", fs.err
	}
	return fs.client.Read(name)
}

// Open opens the named secret for reading.
func (fs *vaultFS) Open(name string) (wkfs.File, error) {
	secret, err := fs.read(name)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}
	return &file{
		info:   newStatInfo(name, secret),
		Reader: bytes.NewReader([]byte(secret)),
	}, nil
}

func (fs *vaultFS) Stat(name string) (os.FileInfo, error) { return fs.Lstat(name) }
func (fs *vaultFS) Lstat(name string) (os.FileInfo, error) {
	secret, err := fs.read(name)
	if err != nil {
		return nil, &os.PathError{Op: "stat", Path: name, Err: err}
	}
	return newStatInfo(name, secret), nil
}

func (fs *vaultFS) MkdirAll(path string, perm os.FileMode) error { return nil }

func (fs *vaultFS) OpenFile(name string, flag int, perm os.FileMode) (wkfs.FileWriter, error) {
	return nil, errors.New("not implemented")
}

func (fs *vaultFS) Remove(path string) error {
	if fs.err != nil {
		return fs.err
	}
	return fs.client.Delete(path)
}

type statInfo struct {
	name    string
	size    int64
	modtime time.Time
}

func newStatInfo(name, secret string) *statInfo {
	return &statInfo{name: path.Base(name), size: int64(len(secret))}
}

func (si *statInfo) IsDir() bool        { return false }
func (si *statInfo) ModTime() time.Time { return si.modtime }
func (si *statInfo) Mode() os.FileMode  { return 0400 }
func (si *statInfo) Name() string       { return si.name }
func (si *statInfo) Size() int64        { return si.size }
func (si *statInfo) Sys() interface{}   { return nil }

type file struct {
	info *statInfo
	*bytes.Reader
}

func (*file) Close() error                 { return nil }
func (f *file) Name() string               { return f.info.name }
func (f *file) Stat() (os.FileInfo, error) { return f.info, nil }
