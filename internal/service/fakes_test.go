package service

import (
	"context"

	"github.com/AtsunoriNagaya/swim-traing-app/internal/repository"
	"github.com/AtsunoriNagaya/swim-traing-app/internal/storage"
)

const fakeBaseURL = "mem://bucket/"

// fakeObjectStorage is an in-memory ObjectStorage keyed by URL.
type fakeObjectStorage struct {
	objects  map[string][]byte
	writeErr error
	readErrs map[string]error
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{
		objects:  map[string][]byte{},
		readErrs: map[string]error{},
	}
}

func (f *fakeObjectStorage) Write(_ context.Context, key string, data []byte) (string, error) {
	if f.writeErr != nil {
		return "", f.writeErr
	}
	url := fakeBaseURL + key
	f.objects[url] = data
	return url, nil
}

func (f *fakeObjectStorage) Read(_ context.Context, url string) ([]byte, error) {
	if err := f.readErrs[url]; err != nil {
		return nil, err
	}
	data, ok := f.objects[url]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return data, nil
}

// drop removes an object, simulating a blob missing from storage while its
// index entry survives.
func (f *fakeObjectStorage) drop(url string) {
	delete(f.objects, url)
}

// fakePointerRepository is an in-memory versioned pointer store.
type fakePointerRepository struct {
	pointers map[string]repository.Pointer
	getErr   error
	setErr   error
}

func newFakePointerRepository() *fakePointerRepository {
	return &fakePointerRepository{pointers: map[string]repository.Pointer{}}
}

func (f *fakePointerRepository) Get(_ context.Context, key string) (repository.Pointer, error) {
	if f.getErr != nil {
		return repository.Pointer{}, f.getErr
	}
	ptr, ok := f.pointers[key]
	if !ok {
		return repository.Pointer{}, repository.ErrNotFound
	}
	return ptr, nil
}

func (f *fakePointerRepository) CompareAndSet(_ context.Context, key, value string, expectedVersion int64) error {
	if f.setErr != nil {
		return f.setErr
	}
	current, ok := f.pointers[key]
	if !ok {
		if expectedVersion != 0 {
			return repository.ErrConflict
		}
		f.pointers[key] = repository.Pointer{Value: value, Version: 1}
		return nil
	}
	if current.Version != expectedVersion {
		return repository.ErrConflict
	}
	f.pointers[key] = repository.Pointer{Value: value, Version: expectedVersion + 1}
	return nil
}
