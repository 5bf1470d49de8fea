package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dkoval/notewave/models"
	"github.com/dkoval/notewave/notion"
)

const (
	// Children-listing calls for one BFS level run in concurrent batches of
	// this size.
	fetchBatchSize = 10

	childPageSize = 100

	// Levels wide enough to need more than this many batches get a pause
	// between batches to stay under the remote rate limit.
	delayBatchThreshold = 3
	interBatchDelay     = 350 * time.Millisecond
)

// FetchBlockTree pulls the block subtree under rootId from the remote source,
// breadth-first and level-synchronous: a node's children are never listed
// before every sibling at its depth has been listed. maxDepth bounds the tree
// at that many levels below the root; nodes at the bound are treated as
// leaves even when the remote marks them as having children.
//
// A failed listing inside the tree isolates to that subtree (it stays
// childless); only a failure listing the root's own children is an error.
func (s *Service) FetchBlockTree(ctx context.Context, rootId string, maxDepth int) ([]models.Block, error) {
	// Children recorded per parent id; the tree is reassembled from this map
	// afterwards, independent of call completion order.
	childrenOf := make(map[string][]models.Block)

	rootChildren, expandable, err := s.listAndExtract(ctx, rootId)
	if err != nil {
		return nil, fmt.Errorf("listing root children: %w", err)
	}
	childrenOf[rootId] = rootChildren

	var frontier []string
	if maxDepth > 1 {
		frontier = expandable
	}

	// Frontier nodes sit at tree depth `depth`; their children land at
	// depth+1 and are enqueued only while still inside the bound.
	for depth := 1; depth < maxDepth && len(frontier) > 0; depth++ {
		numBatches := (len(frontier) + fetchBatchSize - 1) / fetchBatchSize

		var mu sync.Mutex
		var nextFrontier []string

		for b := 0; b < numBatches; b++ {
			start := b * fetchBatchSize
			end := min(start+fetchBatchSize, len(frontier))

			var wg sync.WaitGroup
			for _, parentId := range frontier[start:end] {
				wg.Add(1)
				go func(parentId string) {
					defer wg.Done()

					children, expand, err := s.listAndExtract(ctx, parentId)
					if err != nil {
						// Isolated partial failure: this subtree stays
						// childless, siblings keep going.
						log.Printf("Failed to list children of block %s: %v", parentId, err)
						return
					}

					mu.Lock()
					childrenOf[parentId] = children
					if depth+1 < maxDepth {
						nextFrontier = append(nextFrontier, expand...)
					}
					mu.Unlock()
				}(parentId)
			}
			wg.Wait()

			if numBatches > delayBatchThreshold && b < numBatches-1 {
				time.Sleep(interBatchDelay)
			}
		}

		frontier = nextFrontier
	}

	return attachChildren(rootChildren, childrenOf), nil
}

// listAndExtract lists one block's children and runs content extraction on
// each, also reporting which children have further children of their own.
func (s *Service) listAndExtract(ctx context.Context, blockId string) ([]models.Block, []string, error) {
	remoteBlocks, err := s.Source.ListChildren(ctx, blockId, childPageSize)
	if err != nil {
		return nil, nil, err
	}

	children := make([]models.Block, 0, len(remoteBlocks))
	var expandable []string
	for _, remote := range remoteBlocks {
		blockType, content := notion.ExtractContent(remote)
		children = append(children, models.Block{
			Id:      string(remote.GetID()),
			Type:    blockType,
			Content: content,
		})
		if remote.GetHasChildren() {
			expandable = append(expandable, string(remote.GetID()))
		}
	}

	return children, expandable, nil
}

func attachChildren(blocks []models.Block, childrenOf map[string][]models.Block) []models.Block {
	for i := range blocks {
		if children, ok := childrenOf[blocks[i].Id]; ok {
			blocks[i].Children = attachChildren(children, childrenOf)
		}
	}
	return blocks
}
