package store

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/hyperjump/wyvern/internal/errs"
	"github.com/hyperjump/wyvern/internal/model"
)

// openFieldsDB opens (creating if necessary) the per-segment SQLite database
// holding Fast and Stored fields, in WAL mode, keyed by local document id
// rather than a UUID string.
func openFieldsDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errs.Wrap(err, errs.IndexIO, "create fields db directory")
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errs.Wrap(err, errs.IndexIO, "open fields db at %s", path)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, errs.Wrap(err, errs.IndexIO, "enable WAL on fields db at %s", path)
	}
	if err := initFieldsSchema(db); err != nil {
		_ = db.Close()
		return nil, errs.Wrap(err, errs.IndexIO, "initialize fields schema at %s", path)
	}
	return db, nil
}

func initFieldsSchema(db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS fields (
		local_doc_id INTEGER PRIMARY KEY,
		url TEXT NOT NULL,
		url_for_site_operator TEXT,
		site TEXT,
		domain TEXT,
		title TEXT,
		clean_body TEXT,
		all_body TEXT,
		description TEXT,
		dmoz_description TEXT,
		schema_org_json TEXT,
		flattened_schema_org_json TEXT,
		keywords_json TEXT,
		microformat_tags_json TEXT,
		recipe_first_ingredient_tag_id TEXT,
		pre_computed_score REAL NOT NULL DEFAULT 0,
		host_centrality REAL NOT NULL DEFAULT 0,
		page_centrality REAL NOT NULL DEFAULT 0,
		fetch_time_ms INTEGER NOT NULL DEFAULT 0,
		region TEXT,
		last_updated INTEGER NOT NULL DEFAULT 0,
		host_node_id INTEGER NOT NULL DEFAULT 0,
		likely_has_ads INTEGER NOT NULL DEFAULT 0,
		likely_has_paywall INTEGER NOT NULL DEFAULT 0,
		safety_classification TEXT,
		insertion_timestamp INTEGER NOT NULL DEFAULT 0,
		site_hash INTEGER NOT NULL DEFAULT 0,
		title_hash INTEGER NOT NULL DEFAULT 0,
		url_hash INTEGER NOT NULL DEFAULT 0,
		url_no_tld_hash INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_fields_url ON fields(url);
	CREATE INDEX IF NOT EXISTS idx_fields_site ON fields(site);
	CREATE INDEX IF NOT EXISTS idx_fields_insertion_timestamp ON fields(insertion_timestamp);
	`
	_, err := db.Exec(schema)
	return err
}

// fieldsDBStats returns the live row count and the highest local_doc_id ever
// inserted, used to resume numbering after reopening a segment.
func fieldsDBStats(db *sql.DB) (numDocs int, maxDocID uint32, err error) {
	row := db.QueryRow(`SELECT COUNT(*), COALESCE(MAX(local_doc_id), -1) FROM fields`)
	var maxID int64
	if err := row.Scan(&numDocs, &maxID); err != nil {
		return 0, 0, errs.Wrap(err, errs.IndexIO, "read fields db stats")
	}
	if maxID < 0 {
		return numDocs, 0, nil
	}
	return numDocs, uint32(maxID), nil
}

// insertFields writes the Fast/Stored columns for one document, including
// the Text-field values the merge path needs to re-derive an equivalent
// Document without consulting the original input again. localDocID doubles
// as the bleve document's string ID (see segmentInsert).
func insertFields(db *sql.DB, localDocID uint32, doc *model.Document, hashes model.ContentHashes) error {
	return insertFieldsFromStored(db, localDocID, &StoredFields{
		Hashes:                     hashes,
		URL:                        doc.URL,
		URLForSiteOperator:         doc.UrlForSiteOperator,
		Site:                       doc.Site,
		Domain:                     doc.Domain,
		Title:                      doc.Title,
		CleanBody:                  doc.CleanBody,
		AllBody:                    doc.AllBody,
		Description:                doc.Description,
		DmozDescription:            doc.DmozDescription,
		SchemaOrg:                  doc.SchemaOrgJson,
		FlattenedSchemaOrg:         doc.FlattenedSchemaOrgJson,
		Keywords:                   doc.Keywords,
		MicroformatTags:            doc.MicroformatTags,
		RecipeFirstIngredientTagId: doc.RecipeFirstIngredientTagId,
		PreComputedScore:           doc.PreComputedScore,
		HostCentrality:             doc.HostCentrality,
		PageCentrality:             doc.PageCentrality,
		FetchTimeMs:                doc.FetchTimeMs,
		Region:                     doc.Region,
		LastUpdated:                doc.LastUpdated,
		HostNodeID:                 doc.HostNodeID,
		LikelyHasAds:               doc.LikelyHasAds,
		LikelyHasPaywall:           doc.LikelyHasPaywall,
		SafetyClassification:       doc.SafetyClassification,
		InsertionTimestamp:         doc.InsertionTimestamp,
	})
}

// insertFieldsFromStored writes a row directly from an already-materialised
// StoredFields value, used both by insertFields and by merge's document copy.
func insertFieldsFromStored(db *sql.DB, localDocID uint32, f *StoredFields) error {
	schemaJSON, err := json.Marshal(f.SchemaOrg)
	if err != nil {
		return errs.Wrap(err, errs.IndexIO, "marshal schema.org json")
	}
	keywordsJSON, err := json.Marshal(f.Keywords)
	if err != nil {
		return errs.Wrap(err, errs.IndexIO, "marshal keywords")
	}
	microformatJSON, err := json.Marshal(f.MicroformatTags)
	if err != nil {
		return errs.Wrap(err, errs.IndexIO, "marshal microformat tags")
	}
	flattenedJSON, err := json.Marshal(f.FlattenedSchemaOrg)
	if err != nil {
		return errs.Wrap(err, errs.IndexIO, "marshal flattened schema.org json")
	}

	_, err = db.Exec(`
		INSERT INTO fields (
			local_doc_id, url, url_for_site_operator, site, domain, title, clean_body, all_body,
			description, dmoz_description, schema_org_json, flattened_schema_org_json,
			keywords_json, microformat_tags_json, recipe_first_ingredient_tag_id,
			pre_computed_score, host_centrality, page_centrality, fetch_time_ms, region,
			last_updated, host_node_id, likely_has_ads, likely_has_paywall,
			safety_classification, insertion_timestamp,
			site_hash, title_hash, url_hash, url_no_tld_hash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		localDocID, f.URL, nullableString(f.URLForSiteOperator), nullableString(f.Site), nullableString(f.Domain),
		f.Title, f.CleanBody, f.AllBody, f.Description, f.DmozDescription,
		string(schemaJSON), string(flattenedJSON), string(keywordsJSON), string(microformatJSON), f.RecipeFirstIngredientTagId,
		f.PreComputedScore, f.HostCentrality, f.PageCentrality, f.FetchTimeMs, string(f.Region),
		f.LastUpdated.Unix(), f.HostNodeID, boolToInt(f.LikelyHasAds), boolToInt(f.LikelyHasPaywall),
		string(f.SafetyClassification), f.InsertionTimestamp.Unix(),
		int64(f.Hashes.Site), int64(f.Hashes.Title), int64(f.Hashes.URL), int64(f.Hashes.URLNoTLD),
	)
	if err != nil {
		return errs.Wrap(err, errs.IndexIO, "insert fields row for local doc %d", localDocID)
	}
	return nil
}

// StoredFields is the row materialize reads back to build a RetrievedWebpage,
// and the full set of Text/Fast/Stored values merge needs to reconstruct an
// equivalent Document for re-analysis into a merged segment.
type StoredFields struct {
	LocalDocID                 uint32
	Hashes                     model.ContentHashes
	URL                        string
	URLForSiteOperator         string
	Site                       string
	Domain                     string
	Title                      string
	CleanBody                  string
	AllBody                    string
	Description                string
	DmozDescription            string
	SchemaOrg                  []model.Item
	FlattenedSchemaOrg         []string
	Keywords                   []string
	MicroformatTags            []string
	RecipeFirstIngredientTagId string
	PreComputedScore           float64
	HostCentrality             float64
	PageCentrality             float64
	FetchTimeMs                uint64
	Region                     model.RegionCode
	LastUpdated                time.Time
	HostNodeID                 uint64
	LikelyHasAds               bool
	LikelyHasPaywall           bool
	SafetyClassification       model.SafetyLabel
	InsertionTimestamp         time.Time
}

func scanFields(row interface {
	Scan(dest ...any) error
}) (*StoredFields, error) {
	var f StoredFields
	var urlForSite, site, domain, schemaJSON, flattenedJSON, keywordsJSON, microformatJSON, region, safety sql.NullString
	var lastUpdated, insertionTS int64
	var adsInt, paywallInt int
	var siteHash, titleHash, urlHash, urlNoTLDHash int64

	err := row.Scan(
		&f.LocalDocID, &f.URL, &urlForSite, &site, &domain, &f.Title, &f.CleanBody, &f.AllBody,
		&f.Description, &f.DmozDescription, &schemaJSON, &flattenedJSON, &keywordsJSON, &microformatJSON,
		&f.RecipeFirstIngredientTagId,
		&f.PreComputedScore, &f.HostCentrality, &f.PageCentrality, &f.FetchTimeMs, &region,
		&lastUpdated, &f.HostNodeID, &adsInt, &paywallInt, &safety, &insertionTS,
		&siteHash, &titleHash, &urlHash, &urlNoTLDHash,
	)
	if err != nil {
		return nil, err
	}
	f.Hashes = model.ContentHashes{
		Site:     uint64(siteHash),
		Title:    uint64(titleHash),
		URL:      uint64(urlHash),
		URLNoTLD: uint64(urlNoTLDHash),
	}

	f.URLForSiteOperator = urlForSite.String
	f.Site = site.String
	f.Domain = domain.String
	f.Region = model.RegionCode(region.String)
	f.SafetyClassification = model.SafetyLabel(safety.String)
	f.LastUpdated = time.Unix(lastUpdated, 0).UTC()
	f.InsertionTimestamp = time.Unix(insertionTS, 0).UTC()
	f.LikelyHasAds = adsInt != 0
	f.LikelyHasPaywall = paywallInt != 0

	if schemaJSON.String != "" {
		_ = json.Unmarshal([]byte(schemaJSON.String), &f.SchemaOrg)
	}
	if flattenedJSON.String != "" {
		_ = json.Unmarshal([]byte(flattenedJSON.String), &f.FlattenedSchemaOrg)
	}
	if keywordsJSON.String != "" {
		_ = json.Unmarshal([]byte(keywordsJSON.String), &f.Keywords)
	}
	if microformatJSON.String != "" {
		_ = json.Unmarshal([]byte(microformatJSON.String), &f.MicroformatTags)
	}
	return &f, nil
}

const fieldsSelectList = `local_doc_id, url, url_for_site_operator, site, domain, title, clean_body, all_body,
	description, dmoz_description, schema_org_json, flattened_schema_org_json,
	keywords_json, microformat_tags_json, recipe_first_ingredient_tag_id,
	pre_computed_score, host_centrality, page_centrality, fetch_time_ms, region,
	last_updated, host_node_id, likely_has_ads, likely_has_paywall,
	safety_classification, insertion_timestamp,
	site_hash, title_hash, url_hash, url_no_tld_hash`

func getFieldsByLocalID(db *sql.DB, localDocID uint32) (*StoredFields, error) {
	row := db.QueryRow(`SELECT `+fieldsSelectList+` FROM fields WHERE local_doc_id = ?`, localDocID)
	f, err := scanFields(row)
	if err == sql.ErrNoRows {
		return nil, errs.New(errs.DocMissing, "local doc %d not found in fields db", localDocID)
	}
	if err != nil {
		return nil, errs.Wrap(err, errs.IndexIO, "scan fields row for local doc %d", localDocID)
	}
	return f, nil
}

func getFieldsByURL(db *sql.DB, url string) (*StoredFields, error) {
	row := db.QueryRow(`SELECT `+fieldsSelectList+` FROM fields WHERE url = ? LIMIT 1`, url)
	f, err := scanFields(row)
	if err == sql.ErrNoRows {
		return nil, errs.New(errs.DocMissing, "url %s not found", url)
	}
	if err != nil {
		return nil, errs.Wrap(err, errs.IndexIO, "scan fields row for url %s", url)
	}
	return f, nil
}

func getFieldsBySite(db *sql.DB, site string) (*StoredFields, error) {
	row := db.QueryRow(`SELECT `+fieldsSelectList+` FROM fields WHERE site = ? LIMIT 1`, site)
	f, err := scanFields(row)
	if err == sql.ErrNoRows {
		return nil, errs.New(errs.DocMissing, "homepage %s not found", site)
	}
	if err != nil {
		return nil, errs.Wrap(err, errs.IndexIO, "scan fields row for site %s", site)
	}
	return f, nil
}

// allFields returns every row currently in the fields database, used by
// delete-query evaluation (§4.B) which must check each live document's
// stored fields against the registered predicate.
func allFields(db *sql.DB) ([]*StoredFields, error) {
	rows, err := db.Query(`SELECT ` + fieldsSelectList + ` FROM fields`)
	if err != nil {
		return nil, errs.Wrap(err, errs.IndexIO, "query all fields")
	}
	defer rows.Close()

	var out []*StoredFields
	for rows.Next() {
		f, err := scanFields(rows)
		if err != nil {
			return nil, errs.Wrap(err, errs.IndexIO, "scan fields row")
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
