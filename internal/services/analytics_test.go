package services

import (
	"context"
	"testing"
	"time"

	"sales-dashboard/internal/models"
)

func TestNewAnalytics(t *testing.T) {
	a := NewAnalytics()
	if a == nil {
		t.Fatal("NewAnalytics() returned nil")
	}
	if a.Snapshot() == nil {
		t.Error("a fresh service should expose an empty dataset, not nil")
	}
	if got := a.Snapshot().RowCount; got != 0 {
		t.Errorf("fresh dataset RowCount = %d, want 0", got)
	}
}

func TestAnalytics_Load(t *testing.T) {
	csv := sampleHeader + "\n" +
		"2024-04-01,Amazon,Apparel,Shirt,S-1,100,10,2,0,Sale,Dispatched\n" +
		"2024-04-02,Flipkart,Footwear,Sneaker,S-2,200,0,1,0,Sale,Pending\n"
	f := createTempCSV(t, csv)

	a := NewAnalytics()
	if err := a.Load(context.Background(), f); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	ds := a.Snapshot()
	if ds.RowCount != 2 {
		t.Errorf("RowCount = %d, want 2", ds.RowCount)
	}
	if ds.ID == "" {
		t.Error("loaded dataset should carry an ID")
	}
	if ds.SourceFile != f {
		t.Errorf("SourceFile = %q, want %q", ds.SourceFile, f)
	}
}

func TestAnalytics_FailedLoadKeepsPreviousDataset(t *testing.T) {
	good := createTempCSV(t, sampleHeader+"\n2024-04-01,Amazon,Apparel,Shirt,S-1,100,0,1,0,Sale,Dispatched\n")
	bad := createTempCSV(t, "Foo,Bar\n1,2\n")

	a := NewAnalytics()
	if err := a.Load(context.Background(), good); err != nil {
		t.Fatalf("Load(good) error = %v", err)
	}
	before := a.Snapshot()

	if err := a.Load(context.Background(), bad); err == nil {
		t.Fatal("Load(bad) should fail")
	}

	after := a.Snapshot()
	if after != before {
		t.Error("failed load must leave the previous dataset installed")
	}
	if after.RowCount != 1 {
		t.Errorf("RowCount after failed load = %d, want 1", after.RowCount)
	}
}

func TestAnalytics_SetDataReplacesWholesale(t *testing.T) {
	a := NewAnalytics()

	a.SetData([]models.Transaction{{Platform: "Amazon", NetRevenue: 100}})
	first := a.Snapshot()

	a.SetData([]models.Transaction{{Platform: "Flipkart", NetRevenue: 50}, {Platform: "Myntra", NetRevenue: 25}})
	second := a.Snapshot()

	if first == second {
		t.Error("SetData should install a new dataset value")
	}
	if first.ID == second.ID {
		t.Error("each installed dataset should get a fresh ID")
	}
	if second.RowCount != 2 {
		t.Errorf("RowCount = %d, want 2", second.RowCount)
	}
	if len(first.Transactions) != 1 {
		t.Error("old snapshot must stay intact after replacement")
	}
}

func TestAnalytics_Stats(t *testing.T) {
	a := NewAnalytics()
	a.SetData([]models.Transaction{{Platform: "Amazon"}})

	stats := a.Stats()
	if stats["row_count"] != 1 {
		t.Errorf("row_count = %v, want 1", stats["row_count"])
	}
	if _, ok := stats["loaded_at"].(time.Time); !ok {
		t.Error("loaded_at should be a time.Time")
	}
}

func TestAnalytics_ConcurrentSnapshots(t *testing.T) {
	a := NewAnalytics()
	a.SetData([]models.Transaction{{Platform: "Amazon", NetRevenue: 100, OrderDate: time.Now()}})

	done := make(chan bool, 20)
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- true }()
			ds := a.Snapshot()
			_ = Summarize(ds.Transactions)
			_ = GroupBy(ds.Transactions, DimensionPlatform)
		}()
		go func() {
			defer func() { done <- true }()
			a.SetData([]models.Transaction{{Platform: "Flipkart", NetRevenue: 50}})
		}()
	}

	for i := 0; i < 20; i++ {
		<-done
	}
}
