package service

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/AtsunoriNagaya/swim-traing-app/internal/config"
	"github.com/AtsunoriNagaya/swim-traing-app/internal/domain"
	"github.com/AtsunoriNagaya/swim-traing-app/internal/storage"

	"go.uber.org/zap"
)

// Section-name markers the structural bonus looks for.
var (
	warmUpMarkers   = []string{"アップ", "warm", "w-up"}
	mainSetMarkers  = []string{"メイン", "main"}
	coolDownMarkers = []string{"ダウン", "down", "cool"}
)

// SearchService scores indexed menus against a free-text query and a
// target duration. Failures degrade to an empty result list.
type SearchService interface {
	Search(ctx context.Context, query string, targetDuration int) []domain.SearchResult
}

// searchService implements the SearchService interface.
type searchService struct {
	index  *IndexManager
	store  storage.ObjectStorage
	cfg    config.SearchConfig
	logger *zap.Logger
}

// NewSearchService creates a new instance of searchService.
func NewSearchService(index *IndexManager, store storage.ObjectStorage, cfg config.SearchConfig, logger *zap.Logger) SearchService {
	return &searchService{
		index:  index,
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// searchQuery is the tokenized form of a free-text query.
type searchQuery struct {
	levels   []string
	keywords []string
}

// parseQuery splits a query into recognized load-level tokens and lowercased
// keywords. Single-rune tokens and duration mentions ("30分", "45min") are
// neither.
func parseQuery(query string) searchQuery {
	var parsed searchQuery
	seenLevels := map[string]bool{}

	for _, token := range strings.Fields(query) {
		if isLoadLevel(token) {
			if !seenLevels[token] {
				seenLevels[token] = true
				parsed.levels = append(parsed.levels, token)
			}
			continue
		}
		if isDurationToken(token) {
			continue
		}
		if utf8.RuneCountInString(token) > 1 {
			parsed.keywords = append(parsed.keywords, strings.ToLower(token))
		}
	}
	return parsed
}

func isLoadLevel(token string) bool {
	for _, level := range domain.LoadLevels {
		if token == level {
			return true
		}
	}
	return false
}

func isDurationToken(token string) bool {
	lower := strings.ToLower(token)
	return strings.HasSuffix(token, "分") || strings.HasSuffix(lower, "min")
}

// Search loads the index, scores every entry inside the duration window,
// and returns the top matches by descending score. An entry only qualifies
// when its full document could be fetched and its score reaches the
// configured minimum; a failure on one entry skips it and the scan
// continues.
func (s *searchService) Search(ctx context.Context, query string, targetDuration int) []domain.SearchResult {
	index, _ := s.index.Load(ctx)
	parsed := parseQuery(query)

	results := []domain.SearchResult{}
	for _, entry := range index.Menus {
		if result, ok := s.scoreEntry(ctx, entry, parsed, targetDuration); ok {
			results = append(results, result)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > s.cfg.MaxResults {
		results = results[:s.cfg.MaxResults]
	}
	return results
}

// scoreEntry applies the duration window and accumulates the additive
// score for one index entry. The full document is fetched only after the
// entry passed the window.
func (s *searchService) scoreEntry(ctx context.Context, entry domain.IndexEntry, query searchQuery, targetDuration int) (domain.SearchResult, bool) {
	menuDuration, _ := strconv.Atoi(entry.Metadata.Duration)

	// Hard filter: outside [0.8t, 1.2t] the entry contributes nothing and
	// its document is never fetched.
	d := float64(menuDuration)
	if d < 0.8*float64(targetDuration) || d > 1.2*float64(targetDuration) {
		return domain.SearchResult{}, false
	}

	score := 3
	switch diff := math.Abs(float64(targetDuration) - d); {
	case diff <= 5:
		score += 2
	case diff <= 10:
		score++
	}

	entryLevels := domain.SplitLoadLevels(entry.Metadata.LoadLevels)
	for _, level := range query.levels {
		for _, have := range entryLevels {
			if level == have {
				score += 2
				break
			}
		}
	}

	// A keyword scores once per field it appears in; hits across fields are
	// deliberately not deduplicated.
	fields := []string{
		strings.ToLower(entry.Metadata.Title),
		strings.ToLower(entry.Metadata.Notes),
		strings.ToLower(strings.Join(entry.Metadata.TargetSkills, " ")),
	}
	for _, keyword := range query.keywords {
		for _, field := range fields {
			if strings.Contains(field, keyword) {
				score++
			}
		}
	}

	if entry.MenuDataURL == "" {
		return domain.SearchResult{}, false
	}
	data, err := s.store.Read(ctx, entry.MenuDataURL)
	if err != nil {
		s.logger.Debug("skipping entry, document fetch failed",
			zap.String("id", entry.ID), zap.Error(err))
		return domain.SearchResult{}, false
	}
	var doc domain.MenuDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Debug("skipping entry, document parse failed",
			zap.String("id", entry.ID), zap.Error(err))
		return domain.SearchResult{}, false
	}

	score += structureScore(&doc)

	if score < s.cfg.MinScore {
		return domain.SearchResult{}, false
	}
	return domain.SearchResult{Menu: &doc, Score: score}, true
}

// structureScore awards one point each for the presence of a warm-up, a
// main-set, and a cool-down section.
func structureScore(doc *domain.MenuDocument) int {
	score := 0
	for _, markers := range [][]string{warmUpMarkers, mainSetMarkers, coolDownMarkers} {
		if hasSection(doc, markers) {
			score++
		}
	}
	return score
}

func hasSection(doc *domain.MenuDocument, markers []string) bool {
	for _, section := range doc.Sections {
		name := strings.ToLower(section.Name)
		for _, marker := range markers {
			if strings.Contains(name, marker) {
				return true
			}
		}
	}
	return false
}
