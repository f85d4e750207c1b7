package layout

import (
	"sync"

	"github.com/cpcf/weave/diag"
	"github.com/cpcf/weave/document"
)

// renderParallel renders docs on a fixed pool of workers. Each document
// reports into its own buffer; buffers are flushed in document order once
// every worker is done, so the sink sees the same sequence as a sequential
// run.
func (r *Renderer) renderParallel(docs []*document.Document) {
	buffers := make([]*diag.Buffer, len(docs))
	for i := range buffers {
		buffers[i] = diag.NewBuffer()
	}

	workers := r.workers
	if workers > len(docs) {
		workers = len(docs)
	}

	queue := make(chan int, workers*2)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range queue {
				r.renderDocument(docs[i], buffers[i])
			}
		}()
	}

	for i := range docs {
		queue <- i
	}
	close(queue)
	wg.Wait()

	for _, b := range buffers {
		b.Flush(r.sink)
	}
}
