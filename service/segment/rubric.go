package segment

import (
	"github.com/viant/grader/internal/shm"
	"github.com/viant/grader/model"
)

// Rubric is the shared ordered list of rubric entries.
type Rubric struct {
	region *shm.Region
}

// CreateRubric allocates an empty rubric segment.
func CreateRubric(factory shm.Factory, name string) (*Rubric, error) {
	region, err := create(factory, name, rubricWords, rubricMagic)
	if err != nil {
		return nil, err
	}
	return &Rubric{region: region}, nil
}

// AttachRubric maps an existing rubric segment.
func AttachRubric(factory shm.Factory, name string) (*Rubric, error) {
	region, err := attach(factory, name, rubricWords, rubricMagic)
	if err != nil {
		return nil, err
	}
	return &Rubric{region: region}, nil
}

// Name returns the segment name.
func (r *Rubric) Name() string { return r.region.Name() }

// Populate copies at most MaxRubricEntries entries into the segment and
// returns the number copied. It also clears the correction marker.
func (r *Rubric) Populate(entries []model.RubricEntry) int {
	count := min(len(entries), model.MaxRubricEntries)
	for i := 0; i < count; i++ {
		r.region.Store(rubricEntries+2*i, uint32(entries[i].ExerciseID))
		r.region.Store(rubricEntries+2*i+1, uint32(entries[i].Symbol))
	}
	r.region.Store(rubricCorrectedBy, 0)
	r.region.Store(rubricCount, uint32(count))
	return count
}

// Len returns the number of loaded entries.
func (r *Rubric) Len() int {
	return int(r.region.Load(rubricCount))
}

// Entry returns entry i.
func (r *Rubric) Entry(i int) model.RubricEntry {
	return model.RubricEntry{
		ExerciseID: int(int32(r.region.Load(rubricEntries + 2*i))),
		Symbol:     byte(r.region.Load(rubricEntries + 2*i + 1)),
	}
}

// SetSymbol replaces the symbol of entry i.
func (r *Rubric) SetSymbol(i int, symbol byte) {
	r.region.Store(rubricEntries+2*i+1, uint32(symbol))
}

// Entries returns a snapshot of all loaded entries.
func (r *Rubric) Entries() []model.RubricEntry {
	count := r.Len()
	result := make([]model.RubricEntry, count)
	for i := range result {
		result[i] = r.Entry(i)
	}
	return result
}

// CorrectedBy returns the ordinal of the worker that corrected the rubric,
// or 0 when nobody has.
func (r *Rubric) CorrectedBy() int {
	return int(r.region.Load(rubricCorrectedBy))
}

// SetCorrectedBy records the correcting worker ordinal.
func (r *Rubric) SetCorrectedBy(ordinal int) {
	r.region.Store(rubricCorrectedBy, uint32(ordinal))
}

// Close unmaps the segment.
func (r *Rubric) Close() error {
	return r.region.Close()
}
