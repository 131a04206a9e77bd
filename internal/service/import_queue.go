package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"school-navigator/internal/dataset"
	"school-navigator/internal/importer"
	"school-navigator/internal/models"
)

// ImportKind names the source format of an import job
type ImportKind string

const (
	ImportRooms    ImportKind = "rooms"
	ImportSchedule ImportKind = "schedule"
	ImportXLSX     ImportKind = "xlsx"
	ImportJSON     ImportKind = "json"
)

// ImportJob is one import waiting to be applied
type ImportJob struct {
	Kind     ImportKind
	Actor    *models.Session
	Rows     []dataset.Row
	Workbook *importer.Workbook
	Document []byte
}

type importRequest struct {
	ctx    context.Context
	job    ImportJob
	result chan importOutcome
}

type importOutcome struct {
	result ImportResult
	err    error
}

// ImportQueue applies imports one at a time in the order they were submitted
type ImportQueue struct {
	datasets *DatasetService
	jobs     chan importRequest
	stopped  chan struct{}
	stopOnce sync.Once
}

func NewImportQueue(datasets *DatasetService, size int) *ImportQueue {
	if size < 1 {
		size = 1
	}
	return &ImportQueue{
		datasets: datasets,
		jobs:     make(chan importRequest, size),
		stopped:  make(chan struct{}),
	}
}

// Start runs the import worker until ctx is cancelled
func (q *ImportQueue) Start(ctx context.Context) {
	log.Println("Import worker started")
	defer q.stopOnce.Do(func() { close(q.stopped) })

	for {
		select {
		case <-ctx.Done():
			log.Println("Import worker stopped")
			return
		case req := <-q.jobs:
			req.result <- q.process(req)
		}
	}
}

// Submit enqueues job and waits for its result
func (q *ImportQueue) Submit(ctx context.Context, job ImportJob) (ImportResult, error) {
	req := importRequest{ctx: ctx, job: job, result: make(chan importOutcome, 1)}

	select {
	case q.jobs <- req:
	case <-q.stopped:
		return ImportResult{}, ErrQueueStopped
	case <-ctx.Done():
		return ImportResult{}, ctx.Err()
	}

	select {
	case out := <-req.result:
		return out.result, out.err
	case <-q.stopped:
		return ImportResult{}, ErrQueueStopped
	case <-ctx.Done():
		return ImportResult{}, ctx.Err()
	}
}

func (q *ImportQueue) process(req importRequest) importOutcome {
	// The submitter gave up while the job was waiting
	if err := req.ctx.Err(); err != nil {
		return importOutcome{err: err}
	}

	var (
		result ImportResult
		err    error
	)
	switch req.job.Kind {
	case ImportRooms:
		result, err = q.datasets.ImportRooms(req.ctx, req.job.Actor, req.job.Rows)
	case ImportSchedule:
		result, err = q.datasets.ImportSchedule(req.ctx, req.job.Actor, req.job.Rows)
	case ImportXLSX:
		if req.job.Workbook == nil {
			err = fmt.Errorf("%w: missing workbook", dataset.ErrParse)
			break
		}
		result, err = q.datasets.ImportWorkbook(req.ctx, req.job.Actor, req.job.Workbook)
	case ImportJSON:
		result, err = q.datasets.ImportJSON(req.ctx, req.job.Actor, req.job.Document)
	default:
		err = fmt.Errorf("unknown import kind %q", req.job.Kind)
	}

	if err != nil {
		log.Printf("Import %s failed: %v", req.job.Kind, err)
	} else {
		log.Printf("Import %s applied - version %d, %d rooms, %d lessons",
			req.job.Kind, result.Version, result.Rooms, result.Lessons)
	}
	return importOutcome{result: result, err: err}
}
