// Package data provides thread-safe storage for the loaded SIDER dataset.
// The container holds one immutable snapshot behind an atomic pointer so
// readers always see drugs, name index, vocabulary and disease map from the
// same load. Updates build a complete new snapshot and swap it in with zero
// downtime.
package data

import (
	"sync/atomic"
	"time"

	"github.com/Icyfire18/sider-prediction/interfaces"
	"github.com/Icyfire18/sider-prediction/siderparser/entities"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// DataContainer holds the current dataset snapshot with atomic pointers for
// zero-downtime updates
type DataContainer struct {
	snapshot        atomic.Value // *entities.Dataset
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a new DataContainer with an empty snapshot
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.snapshot.Store(emptyDataset())
	dc.lastUpdated.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

func emptyDataset() *entities.Dataset {
	return &entities.Dataset{
		Drugs:        make([]entities.Drug, 0),
		DrugsByName:  make(map[string]entities.Drug),
		Vocabulary:   entities.NewVocabulary(nil),
		DiseaseDrugs: make(map[string][]string),
	}
}

// Snapshot returns the current dataset snapshot
func (dc *DataContainer) Snapshot() *entities.Dataset {
	if v := dc.snapshot.Load(); v != nil {
		if ds, ok := v.(*entities.Dataset); ok {
			return ds
		}
	}
	return emptyDataset()
}

// Thread-safe getters, all reading from the same snapshot

// GetDrugs returns the list of drugs
func (dc *DataContainer) GetDrugs() []entities.Drug {
	return dc.Snapshot().Drugs
}

// GetDrugsByName returns the drug name index for O(1) lookups
func (dc *DataContainer) GetDrugsByName() map[string]entities.Drug {
	return dc.Snapshot().DrugsByName
}

// GetVocabulary returns the adverse-event vocabulary of the current snapshot
func (dc *DataContainer) GetVocabulary() *entities.Vocabulary {
	return dc.Snapshot().Vocabulary
}

// GetDiseaseDrugs returns the disease to eligible drugs mapping
func (dc *DataContainer) GetDiseaseDrugs() map[string][]string {
	return dc.Snapshot().DiseaseDrugs
}

// GetLastUpdated returns the timestamp of the last dataset update
func (dc *DataContainer) GetLastUpdated() time.Time {
	if v := dc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}
	return time.Time{}
}

// IsUpdating returns true if a dataset update is currently in progress
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}
	return time.Time{}
}

// UpdateDataset atomically swaps in a new snapshot
func (dc *DataContainer) UpdateDataset(ds *entities.Dataset) {
	if ds == nil {
		return
	}
	dc.snapshot.Store(ds)
	dc.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of an update, returning false if one is
// already in progress
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of an update
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
