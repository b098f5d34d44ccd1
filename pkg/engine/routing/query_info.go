package routing

import (
	da "github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
)

type VertexInfo struct {
	weight   float64
	distance float64 // meter
	parent   da.Index
	scanned  bool // weight is the shortest path weight from the search root
	heapNode *da.PriorityQueueNode[da.Index]
}

func NewVertexInfo(weight, distance float64, parent da.Index, hnode *da.PriorityQueueNode[da.Index]) *VertexInfo {
	return &VertexInfo{
		weight:   weight,
		distance: distance,
		parent:   parent,
		heapNode: hnode,
	}
}

func (vi *VertexInfo) GetWeight() float64 {
	return vi.weight
}

func (vi *VertexInfo) GetDistance() float64 {
	return vi.distance
}

func (vi *VertexInfo) GetParent() da.Index {
	return vi.parent
}

func (vi *VertexInfo) Update(weight, distance float64, parent da.Index) {
	vi.weight = weight
	vi.distance = distance
	vi.parent = parent
}

func (vi *VertexInfo) Scan() {
	vi.scanned = true
}

func (vi *VertexInfo) IsScanned() bool {
	return vi.scanned
}

func (vi *VertexInfo) GetHeapNode() *da.PriorityQueueNode[da.Index] {
	return vi.heapNode
}

// inHeap. ExtractMin sets the position of a removed node to -1.
func (vi *VertexInfo) inHeap() bool {
	return vi.heapNode != nil && vi.heapNode.GetPos() >= 0
}

// relax pushes v with priority, reinserting it if it was already extracted.
func relax(pq *da.MinHeap[da.Index], info map[da.Index]*VertexInfo, v da.Index, weight, distance float64,
	parent da.Index, priority float64) {
	vInfo, ok := info[v]
	if !ok {
		vhNode := da.NewPriorityQueueNode(priority, v)
		info[v] = NewVertexInfo(weight, distance, parent, vhNode)
		pq.Insert(vhNode)
		return
	}
	vInfo.Update(weight, distance, parent)
	if vInfo.inHeap() {
		pq.DecreaseKey(vInfo.heapNode, priority)
		return
	}
	vInfo.scanned = false
	vInfo.heapNode.SetRank(priority)
	pq.Insert(vInfo.heapNode)
}
