package storage

import (
	"context"
	"os"
)

type FileStoreState struct {
	FilePath string
}

func NewFileStoreState(filePath string) *FileStoreState {
	return &FileStoreState{FilePath: filePath}
}

func (f *FileStoreState) Load(ctx context.Context) ([]byte, error) {
	return os.ReadFile(f.FilePath)
}
