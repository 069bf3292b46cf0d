package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"quoteserver/comparison"
	"quoteserver/documents"
	"quoteserver/extraction"
	"quoteserver/internal/config"
)

func main() {
	dir := flag.String("dir", "", "directory with quotation documents (txt, md, html)")
	output := flag.String("output", "comparison.json", "output file, format by extension (.json, .csv, .xlsx)")
	cachePath := flag.String("cache", "extracted_quotations.json", "JSON cache of extracted quotations, empty to disable")
	noRecommend := flag.Bool("no-recommend", false, "skip LLM recommendation generation")
	timeout := flag.Duration("timeout", 10*time.Minute, "total processing timeout")
	flag.Parse()

	if *dir == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err == nil {
		log.Println("✓ Loaded environment from .env")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("✗ Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("✗ Invalid configuration: %v", err)
	}

	client, err := extraction.NewClient(extraction.ClientConfig{
		Provider:          cfg.LLMProvider,
		Model:             cfg.LLMModel,
		APIKey:            cfg.LLMAPIKey,
		BaseURL:           cfg.LLMBaseURL,
		Timeout:           cfg.LLMTimeout,
		RequestsPerSecond: cfg.LLMRatePerSecond,
	})
	if err != nil {
		log.Fatalf("✗ Failed to create LLM client: %v", err)
	}
	log.Printf("✓ LLM client ready: provider=%s model=%s", client.Provider(), client.Model())

	docs, err := documents.NewLoader().LoadDir(*dir)
	if err != nil {
		log.Fatalf("✗ Failed to load documents: %v", err)
	}
	if len(docs) == 0 {
		log.Fatalf("✗ No supported documents found in %s", *dir)
	}
	log.Printf("✓ Loaded %d documents from %s", len(docs), *dir)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// Кэш позволяет не извлекать заново документы, обработанные
	// в предыдущих запусках
	cache := loadCache(*cachePath)

	pending := make([]*documents.Document, 0, len(docs))
	for _, doc := range docs {
		if _, ok := cache[doc.Name]; ok {
			log.Printf("✓ Using cached extraction for %s", doc.Name)
			continue
		}
		pending = append(pending, doc)
	}

	extracted := extractAll(ctx, extraction.NewQuotationExtractor(client), pending, cfg.ExtractionWorkers)
	for name, quotation := range extracted {
		cache[name] = quotation
	}
	saveCache(*cachePath, cache)

	quotations := make([]comparison.Quotation, 0, len(cache))
	for _, doc := range docs {
		if quotation, ok := cache[doc.Name]; ok {
			quotations = append(quotations, quotation)
		}
	}
	if len(quotations) == 0 {
		log.Fatalf("✗ No quotations extracted")
	}

	var recommender comparison.RecommendationGenerator
	if cfg.RecommendEnabled && !*noRecommend {
		recommender = extraction.NewRecommendationEngine(client)
	}

	comparator := comparison.NewComparator(nil, nil, recommender)
	result, err := comparator.Compare(ctx, quotations)
	if err != nil {
		log.Fatalf("✗ Comparison failed: %v", err)
	}

	printReport(result)

	if err := comparison.NewExporter().ExportToFile(*output, result); err != nil {
		log.Fatalf("✗ Export failed: %v", err)
	}
	log.Printf("✓ Results written to %s", *output)
}

// loadCache читает кэш извлеченных котировок (имя документа -> котировка)
func loadCache(path string) map[string]comparison.Quotation {
	cache := make(map[string]comparison.Quotation)
	if path == "" {
		return cache
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cache
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		log.Printf("⚠ Ignoring unreadable cache %s: %v", path, err)
		return make(map[string]comparison.Quotation)
	}
	log.Printf("✓ Loaded %d cached extractions from %s", len(cache), path)
	return cache
}

// saveCache записывает кэш извлеченных котировок
func saveCache(path string, cache map[string]comparison.Quotation) {
	if path == "" || len(cache) == 0 {
		return
	}

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		log.Printf("⚠ Failed to encode cache: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("⚠ Failed to write cache %s: %v", path, err)
	}
}

// extractAll извлекает данные из документов пулом воркеров.
// Возвращает котировки по имени документа; неудачные извлечения
// пропускаются
func extractAll(ctx context.Context, extractor *extraction.QuotationExtractor, docs []*documents.Document, workers int) map[string]comparison.Quotation {
	results := make(map[string]comparison.Quotation, len(docs))
	if len(docs) == 0 {
		return results
	}

	if workers < 1 {
		workers = 1
	}
	if workers > len(docs) {
		workers = len(docs)
	}

	jobs := make(chan *documents.Document)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for doc := range jobs {
				quotation, err := extractor.Extract(ctx, doc.Pages)
				if err != nil {
					log.Printf("✗ Extraction failed for %s: %v", doc.Name, err)
					continue
				}
				mu.Lock()
				results[doc.Name] = *quotation
				mu.Unlock()
			}
		}()
	}

	for _, doc := range docs {
		jobs <- doc
	}
	close(jobs)
	wg.Wait()

	return results
}

// printReport печатает итоговую таблицу сравнения в консоль
func printReport(result *comparison.Result) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println("SUPPLIER COMPARISON RESULTS")
	fmt.Println(strings.Repeat("=", 72))

	for _, item := range result.ComparisonTable {
		fmt.Printf("#%d %s\n", item.Ranking, item.Supplier)
		if item.Scores != nil {
			fmt.Printf("   Score: %.1f/100", item.TotalScore)
			if item.Scores.MissingDataPenalty > 0 {
				fmt.Printf(" (penalty -%.1f)", item.Scores.MissingDataPenalty)
			}
			fmt.Println()
		}
		fmt.Printf("   TCO: €%.2f | Avg unit: €%.2f | Lead time: %s | Payment: %s\n",
			item.TotalCostEUR, item.UnitCostAvgEUR, item.LeadTime, item.PaymentTerms)
	}

	if result.Recommendation != nil {
		fmt.Println(strings.Repeat("-", 72))
		fmt.Printf("RECOMMENDED: %s (%.1f/100)\n", result.Recommendation.RecommendedSupplier, result.Recommendation.TotalScore)
		fmt.Printf("%s\n", result.Recommendation.Reasoning)
		for _, adv := range result.Recommendation.KeyAdvantages {
			fmt.Printf("  + %s\n", adv)
		}
		for _, con := range result.Recommendation.Considerations {
			fmt.Printf("  - %s\n", con)
		}
	}
	fmt.Println(strings.Repeat("=", 72))
}
