package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/aipsync/internal/adapters/driven/storage/localfs"
	"github.com/custodia-labs/aipsync/internal/core/domain"
)

func TestFetcher_WritesAndStamps(t *testing.T) {
	transport := newFakeTransport()
	transport.pdf("/docs/b.pdf", "%PDF b", remoteStamp)
	fetcher := NewFetcher(transport, localfs.New())

	dest := filepath.Join(t.TempDir(), "b.pdf")
	err := fetcher.Fetch(context.Background(), domain.Descriptor{DisplayName: "ENR 1.2", Locator: "/docs/b.pdf"}, dest)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "%PDF b", string(data))

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(remoteStamp), "mtime %s", info.ModTime())
}

func TestFetcher_ReplacesExisting(t *testing.T) {
	transport := newFakeTransport()
	transport.pdf("b.pdf", "new", remoteStamp)
	fetcher := NewFetcher(transport, localfs.New())

	dest := filepath.Join(t.TempDir(), "b.pdf")
	writeLocal(t, dest, remoteStamp.Add(-48*time.Hour))

	require.NoError(t, fetcher.Fetch(context.Background(), domain.Descriptor{DisplayName: "ENR 1.2", Locator: "b.pdf"}, dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestFetcher_NoLastModifiedKeepsWriteTime(t *testing.T) {
	transport := newFakeTransport()
	transport.pdf("b.pdf", "body", time.Time{})
	fetcher := NewFetcher(transport, localfs.New())

	dest := filepath.Join(t.TempDir(), "b.pdf")
	before := time.Now().Add(-time.Minute)
	require.NoError(t, fetcher.Fetch(context.Background(), domain.Descriptor{DisplayName: "x", Locator: "b.pdf"}, dest))

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.True(t, info.ModTime().After(before))
}

func TestFetcher_GetFailureLeavesExistingFile(t *testing.T) {
	transport := newFakeTransport()
	transport.pdf("b.pdf", "new", remoteStamp).getErr = errBoom
	fetcher := NewFetcher(transport, localfs.New())

	dir := t.TempDir()
	dest := filepath.Join(dir, "b.pdf")
	writeLocal(t, dest, remoteStamp.Add(-time.Hour))

	err := fetcher.Fetch(context.Background(), domain.Descriptor{DisplayName: "x", Locator: "b.pdf"}, dest)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransfer))
	assert.True(t, errors.Is(err, errBoom))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "local", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestFetcher_MissingDirectory(t *testing.T) {
	transport := newFakeTransport()
	transport.pdf("b.pdf", "body", remoteStamp)
	fetcher := NewFetcher(transport, localfs.New())

	dest := filepath.Join(t.TempDir(), "absent", "b.pdf")
	err := fetcher.Fetch(context.Background(), domain.Descriptor{DisplayName: "x", Locator: "b.pdf"}, dest)

	require.Error(t, err)
	var te *domain.TransferError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "write", te.Op)
}

func TestAsTransferError_KeepsExisting(t *testing.T) {
	orig := &domain.TransferError{Op: "get", Locator: "x", StatusCode: 500}
	assert.Same(t, orig, asTransferError("get", "x", orig))

	wrapped := asTransferError("get", "y", errBoom)
	assert.True(t, errors.Is(wrapped, domain.ErrTransfer))
	assert.True(t, errors.Is(wrapped, errBoom))
}
