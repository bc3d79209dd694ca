package usecase_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsHarvester/internal/domain"
)

type fakeFetcher struct {
	mu       sync.Mutex
	pages    map[string]string
	failures map[string]error
	calls    []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{pages: map[string]string{}, failures: map[string]error{}}
}

func (f *fakeFetcher) Document(_ context.Context, rawURL string, _ time.Duration) (*goquery.Document, error) {
	f.mu.Lock()
	f.calls = append(f.calls, rawURL)
	f.mu.Unlock()

	if err, ok := f.failures[rawURL]; ok {
		return nil, err
	}
	html, ok := f.pages[rawURL]
	if !ok {
		return nil, &notFoundError{url: rawURL}
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type notFoundError struct{ url string }

func (e *notFoundError) Error() string { return "not found: " + e.url }

type fakeCategoryStore struct {
	setting  domain.BotSetting
	mappings []domain.CategoryMapping
}

func (s *fakeCategoryStore) Mappings(context.Context, domain.SourceName) ([]domain.CategoryMapping, error) {
	return s.mappings, nil
}

func (s *fakeCategoryStore) BotSetting(context.Context, domain.SourceName) (domain.BotSetting, error) {
	return s.setting, nil
}

type fakeArticleStore struct {
	mu      sync.Mutex
	records map[string]domain.StoredArticle
	saves   int
	saveErr error
}

func newFakeArticleStore() *fakeArticleStore {
	return &fakeArticleStore{records: map[string]domain.StoredArticle{}}
}

func storeKey(source domain.SourceName, originalURL string) string {
	return string(source) + "|" + originalURL
}

func (s *fakeArticleStore) Find(_ context.Context, source domain.SourceName, originalURL string) (*domain.StoredArticle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.records[storeKey(source, originalURL)]; ok {
		copied := record
		return &copied, nil
	}
	return nil, nil
}

func (s *fakeArticleStore) Save(_ context.Context, article domain.StoredArticle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.records[storeKey(article.SourceName, article.OriginalURL)] = article
	return nil
}

func (s *fakeArticleStore) ListBySource(_ context.Context, source domain.SourceName, _ int) ([]domain.StoredArticle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.StoredArticle
	for _, record := range s.records {
		if record.SourceName == source {
			out = append(out, record)
		}
	}
	return out, nil
}
