package storage

type FileStoreInterface interface {
	Save(name string, content []byte) error
	Remove(name string) error
	Path(name string) (string, error)
}

var _ FileStoreInterface = (*LocalStore)(nil)
