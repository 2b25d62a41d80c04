package search

import (
	"context"
	"errors"
	"path"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/puzpuzpuz/xsync"
	"github.com/questx-lab/giveaway/pkg/logger"
	"github.com/questx-lab/giveaway/pkg/xcontext"
)

const (
	GiveawayDoc = "giveaway"
)

type GiveawayData struct {
	Title       string
	Description string
	Prize       string
}

type Indexer interface {
	Index(document, id string, data any) error
	Delete(document, id string) error
	Search(document, query string, offset, limit int) ([]string, error)
	Close()
}

type bleveIndex struct {
	logger   logger.Logger
	indexDir string
	indexes  *xsync.MapOf[string, bleve.Index]

	createLock sync.Mutex
}

// NewBleveIndex creates an indexer storing one index per document under the
// configured directory. An empty directory keeps every index in memory.
func NewBleveIndex(ctx context.Context) *bleveIndex {
	return &bleveIndex{
		logger:   xcontext.Logger(ctx),
		indexDir: xcontext.Configs(ctx).Search.IndexDir,
		indexes:  xsync.NewMapOf[bleve.Index](),
	}
}

func (i *bleveIndex) Index(document, id string, data any) error {
	index, err := i.getIndexByDocument(document)
	if err != nil {
		return err
	}

	return index.Index(id, data)
}

func (i *bleveIndex) Delete(document, id string) error {
	index, err := i.getIndexByDocument(document)
	if err != nil {
		return err
	}

	return index.Delete(id)
}

func (i *bleveIndex) Search(document, query string, offset, limit int) ([]string, error) {
	index, err := i.getIndexByDocument(document)
	if err != nil {
		return nil, err
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchQuery(query), limit, offset, false)
	searchResults, err := index.Search(req)
	if err != nil {
		return nil, err
	}

	ids := []string{}
	for _, match := range searchResults.Hits {
		ids = append(ids, match.ID)
	}

	return ids, nil
}

func (i *bleveIndex) Close() {
	i.logger.Infof("Closing all indexers...")

	i.indexes.Range(func(document string, index bleve.Index) bool {
		if err := index.Close(); err != nil {
			i.logger.Errorf("Cannot close indexer %s: %v", document, err)
		}

		return true
	})

	i.logger.Infof("Closing all indexers...done")
}

func (i *bleveIndex) getIndexByDocument(document string) (bleve.Index, error) {
	if index, ok := i.indexes.Load(document); ok {
		return index, nil
	}

	i.createLock.Lock()
	defer i.createLock.Unlock()

	if index, ok := i.indexes.Load(document); ok {
		return index, nil
	}

	i.logger.Infof("A new document index is added: %s", document)

	var index bleve.Index
	var err error
	if i.indexDir == "" {
		index, err = bleve.NewMemOnly(bleve.NewIndexMapping())
		if err != nil {
			return nil, err
		}
	} else {
		indexPath := path.Join(i.indexDir, document)
		index, err = bleve.New(indexPath, bleve.NewIndexMapping())
		if err != nil {
			if !errors.Is(err, bleve.ErrorIndexPathExists) {
				return nil, err
			}

			index, err = bleve.Open(indexPath)
			if err != nil {
				return nil, err
			}
		}
	}

	i.indexes.Store(document, index)
	return index, nil
}
