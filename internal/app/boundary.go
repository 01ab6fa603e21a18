package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"github.com/kk-code-lab/rfiles/internal/export"
	fsutil "github.com/kk-code-lab/rfiles/internal/fs"
	"go.uber.org/zap"
)

const shareBaseURL = "https://share.rfiles.local/"

var errClipboardUnavailable = errors.New("no clipboard utility found")

// boundary performs the context actions that leave the process: download
// writes the node's subtree listing to disk and share copies a link.
type boundary struct {
	store       *fsutil.Store
	downloadDir string
	logger      *zap.Logger
	newToken    func() string
	copyText    func(string) error
}

func newBoundary(downloadDir string, logger *zap.Logger) *boundary {
	return &boundary{
		downloadDir: downloadDir,
		logger:      logger,
		newToken:    uuid.NewString,
		copyText:    copyToClipboard,
	}
}

func copyToClipboard(text string) error {
	if clipboard.Unsupported {
		return errClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}

func (b *boundary) Download(node fsutil.Node) (string, error) {
	var nodes []fsutil.Node
	err := b.store.Walk(node.ID, func(n fsutil.Node, _ int) error {
		nodes = append(nodes, n)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("download %q: %w", node.Name, err)
	}

	path := filepath.Join(b.downloadDir, downloadFileName(node.Name))
	if err := export.WriteFile(path, nodes); err != nil {
		return "", fmt.Errorf("download %q: %w", node.Name, err)
	}
	b.logger.Info("download written",
		zap.String("node", node.ID),
		zap.String("path", path),
		zap.Int("rows", len(nodes)))
	return fmt.Sprintf("saved %d row(s) to %s", len(nodes), path), nil
}

func (b *boundary) Share(node fsutil.Node) (string, error) {
	if _, err := b.store.Update(node.ID, fsutil.SetShared(true)); err != nil {
		return "", fmt.Errorf("share %q: %w", node.Name, err)
	}
	link := shareBaseURL + b.newToken()
	b.logger.Info("node shared", zap.String("node", node.ID), zap.String("link", link))

	if err := b.copyText(link); err != nil {
		b.logger.Warn("share link not copied", zap.Error(err))
		return "share link: " + link, nil
	}
	return "link copied: " + link, nil
}

// downloadFileName maps a node name to a safe file name ending in .csv.
func downloadFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r < ' ', r == 0x7f:
			return -1
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	name = strings.Trim(name, ". ")
	if name == "" {
		name = "download"
	}
	return name + ".csv"
}
