package elasticsearch

// Index settings and mappings, kept as raw JSON in the shape the indices
// API expects. Products carry the full bilingual analysis chain; the other
// indices are flat keyword documents.

// productSettings defines the autocomplete edge-ngram analyzer alongside
// the English and Thai analysis chains.
const productSettings = `{
  "number_of_shards": 1,
  "number_of_replicas": 0,
  "analysis": {
    "analyzer": {
      "autocomplete_analyzer": {
        "type": "custom",
        "tokenizer": "autocomplete_tokenizer",
        "filter": ["lowercase"]
      },
      "autocomplete_search": {
        "type": "custom",
        "tokenizer": "standard",
        "filter": ["lowercase"]
      }
    },
    "tokenizer": {
      "autocomplete_tokenizer": {
        "type": "edge_ngram",
        "min_gram": 2,
        "max_gram": 20,
        "token_chars": ["letter", "digit"]
      }
    }
  }
}`

const productMappings = `{
  "properties": {
    "id":              { "type": "keyword" },
    "sku":             { "type": "keyword" },
    "titleEn":         { "type": "text", "analyzer": "english", "fields": { "keyword": { "type": "keyword", "ignore_above": 256 }, "autocomplete": { "type": "text", "analyzer": "autocomplete_analyzer", "search_analyzer": "autocomplete_search" }, "suggest": { "type": "completion" } } },
    "titleTh":         { "type": "text", "analyzer": "thai", "fields": { "keyword": { "type": "keyword", "ignore_above": 256 }, "suggest": { "type": "completion" } } },
    "brandId":         { "type": "keyword" },
    "brandName":       { "type": "text", "fields": { "keyword": { "type": "keyword" } } },
    "categories":      { "type": "keyword" },
    "colors":          { "type": "keyword" },
    "actualMinPrice":  { "type": "double" },
    "discountPercent": { "type": "double" },
    "imageUrl":        { "type": "keyword", "index": false },
    "offers": {
      "type": "nested",
      "properties": {
        "sku":      { "type": "keyword" },
        "storeId":  { "type": "keyword" },
        "mallId":   { "type": "keyword" },
        "stock":    { "type": "long" },
        "reserved": { "type": "long" }
      }
    },
    "createdAt": { "type": "date" },
    "updatedAt": { "type": "date" }
  }
}`

const brandSettings = `{
  "number_of_shards": 1,
  "number_of_replicas": 0
}`

const brandMappings = `{
  "properties": {
    "id":        { "type": "keyword" },
    "slug":      { "type": "keyword" },
    "nameEn":    { "type": "text", "analyzer": "english", "fields": { "keyword": { "type": "keyword" } } },
    "nameTh":    { "type": "text", "analyzer": "thai", "fields": { "keyword": { "type": "keyword" } } },
    "logoUrl":   { "type": "keyword", "index": false },
    "updatedAt": { "type": "date" }
  }
}`

const stockSettings = `{
  "number_of_shards": 1,
  "number_of_replicas": 0
}`

const stockMappings = `{
  "properties": {
    "line_id":   { "type": "keyword" },
    "sku":       { "type": "keyword" },
    "store_id":  { "type": "keyword" },
    "quantity":  { "type": "long" },
    "reserved":  { "type": "long" },
    "updatedAt": { "type": "date" }
  }
}`

const termSettings = `{
  "number_of_shards": 1,
  "number_of_replicas": 0
}`

const termMappings = `{
  "properties": {
    "domain":    { "type": "keyword" },
    "term":      { "type": "keyword" },
    "hitCount":  { "type": "long" },
    "score":     { "type": "double" },
    "updatedAt": { "type": "date" }
  }
}`
