// Loadgen program: seeds a "users" table with synthetic rows through the
// full storage stack (buffer pool, table heap, B+tree index, index-scan
// cursor) and reports what it built.
// Run: go run ./cmd/loadgen
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/brianvoe/gofakeit/v7"

	heapfile "DaemonDB/storage_engine/access/heapfile_manager"
	indexfile "DaemonDB/storage_engine/access/indexfile_manager"
	"DaemonDB/storage_engine/bufferpool"
	"DaemonDB/storage_engine/catalog"
	diskmanager "DaemonDB/storage_engine/disk_manager"
	"DaemonDB/storage_engine/scan"
	"DaemonDB/storage_engine/schema"
)

const (
	baseDir      = "databases/loadgen"
	rowCount     = 500
	nameFieldLen = 24
)

func userSchema() *schema.Schema {
	return schema.New(
		schema.Field{Name: "id", Type: schema.Uint64},
		schema.Field{Name: "name", Type: schema.FixedBytes, Size: nameFieldLen},
	)
}

func keySchema() *schema.Schema {
	return schema.New(schema.Field{Name: "id", Type: schema.Uint64})
}

func main() {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		log.Fatalf("mkdir %s: %v", baseDir, err)
	}

	dm := diskmanager.New()
	defer dm.CloseAll()
	bp := bufferpool.New(128, dm, "LRUK", 4)

	cat, err := catalog.New()
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	defer cat.Close()

	tables := heapfile.NewManagerWithCatalog(baseDir+"/tables", dm, bp, cat)
	indexes, err := indexfile.NewManagerWithCatalog(baseDir+"/indexes", dm, bp, cat)
	if err != nil {
		log.Fatalf("index manager: %v", err)
	}

	rs, ks := userSchema(), keySchema()
	tbl, err := tables.CreateTable("users", rs, heapfile.PAX)
	if err != nil {
		log.Fatalf("create table: %v", err)
	}
	idx, err := indexes.GetOrCreateIndex("users", ks)
	if err != nil {
		log.Fatalf("create index: %v", err)
	}

	faker := gofakeit.New(0)
	fmt.Printf("seeding %d rows into users...\n", rowCount)
	for i := 0; i < rowCount; i++ {
		buf := make([]byte, rs.RecordSize())
		rs.EncodeUint64(buf, 0, uint64(i))
		rs.EncodeFixedBytes(buf, 1, []byte(faker.Name()))

		r, err := tbl.InsertRecord(buf)
		if err != nil {
			log.Fatalf("insert row %d: %v", i, err)
		}

		key := make([]byte, ks.RecordSize())
		ks.EncodeUint64(key, 0, uint64(i))
		if err := idx.Insert(key, r); err != nil {
			log.Fatalf("index row %d: %v", i, err)
		}
	}

	lowKey, highKey := uint64(rowCount/4), uint64(rowCount/2)
	lowBuf, highBuf := make([]byte, 8), make([]byte, 8)
	ks.EncodeUint64(lowBuf, 0, lowKey)
	ks.EncodeUint64(highBuf, 0, highKey)

	cursor, err := scan.New(tbl, idx, rs, []scan.Condition{
		{Column: "id", Op: scan.Ge, Value: lowBuf},
		{Column: "id", Op: scan.Le, Value: highBuf},
	}, true)
	if err != nil {
		log.Fatalf("build cursor: %v", err)
	}
	if err := cursor.Init(); err != nil {
		log.Fatalf("init cursor: %v", err)
	}

	fmt.Printf("\n--- range scan id in [%d, %d] ---\n", lowKey, highKey)
	var scanned int
	for !cursor.IsEnd() {
		rec, err := cursor.Record()
		if err != nil {
			log.Fatalf("resolve record: %v", err)
		}
		if scanned < 5 {
			fmt.Printf("id=%d name=%q\n", rs.DecodeUint64(rec, 0), string(rs.FieldBytes(rec, 1)))
		}
		scanned++
		cursor.Next()
	}
	fmt.Printf("scanned %d rows\n", scanned)

	tblStats, err := tbl.Stats()
	if err != nil {
		log.Fatalf("table stats: %v", err)
	}
	bpStats := bp.Stats()

	fmt.Println("\n--- stats ---")
	fmt.Printf("table:       records=%d pages=%d free_chain=%d\n", tblStats.RecordNum, tblStats.PageNum, tblStats.FreeChainLength)
	fmt.Printf("buffer pool: capacity=%d resident=%d pinned=%d dirty=%d free=%d\n",
		bpStats.Capacity, bpStats.Resident, bpStats.PinnedPages, bpStats.DirtyPages, bpStats.FreeFrames)

	if err := bp.FlushAllPages(); err != nil {
		log.Fatalf("flush: %v", err)
	}

	demonstrateReopen(tables, indexes, rowCount)
}

// demonstrateReopen shows the catalog-backed Reopen path: forget the
// in-memory "users" handle, then restore it without resupplying its
// schema or storage model, and confirm the restored handle still reads
// the rows seeded earlier. Reopen also fails as expected for a name the
// catalog never saw.
func demonstrateReopen(tables *heapfile.Manager, indexes *indexfile.Manager, seededRows int) {
	if _, err := tables.Reopen("nonexistent"); err == nil {
		log.Fatalf("expected Reopen to fail for a table never created")
	}
	if _, err := indexes.Reopen("nonexistent"); err == nil {
		log.Fatalf("expected Reopen to fail for an index never opened")
	}

	tables.Forget("users")
	indexes.Forget("users")

	tbl, err := tables.Reopen("users")
	if err != nil {
		log.Fatalf("reopen table: %v", err)
	}
	size, err := tbl.Size()
	if err != nil {
		log.Fatalf("reopened table size: %v", err)
	}
	if size != int64(seededRows) {
		log.Fatalf("reopened table has %d rows, want %d", size, seededRows)
	}

	if _, err := indexes.Reopen("users"); err != nil {
		log.Fatalf("reopen index: %v", err)
	}

	fmt.Printf("\ncatalog Reopen restored users (rows=%d) without resupplying schema or model\n", size)
}
