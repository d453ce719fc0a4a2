package qevolve

import (
	"fmt"
	"slices"
)

// DAGNode represents a gate in the circuit as a node in a DAG.
// Dependencies represent ordering constraints - a gate cannot execute before
// the earlier gates that act on the same qubits.
type DAGNode struct {
	ID           string   // Unique identifier for this node
	Gate         Gate     // The gate itself
	Index        int      // Position in the source circuit
	Step         int      // Earliest moment the gate can run
	Dependencies []string // IDs of nodes that must execute before this one
}

// CircuitDAG represents a circuit as a Directed Acyclic Graph of gates scheduled
// into moments (as-soon-as-possible layers).
type CircuitDAG struct {
	Nodes     map[string]*DAGNode // All nodes by ID
	NumQubits int                 // Number of qubits in the circuit
	order     []string            // Node IDs in source order
}

// NewCircuitDAG creates a new empty CircuitDAG.
func NewCircuitDAG() *CircuitDAG {
	return &CircuitDAG{
		Nodes: make(map[string]*DAGNode),
	}
}

// generateNodeID creates a unique ID for a node based on its properties.
func generateNodeID(gateType string, target, index int) string {
	return fmt.Sprintf("%s_q%d_g%d", gateType, target, index)
}

// FromCircuit builds a DAG from a circuit. Each gate depends on the last gate
// seen on each of its qubits and is placed one step after the latest of them.
func FromCircuit(circuit Circuit) *CircuitDAG {
	dag := NewCircuitDAG()
	dag.NumQubits = circuit.NumQubits()

	// Track the last gate on each qubit to establish dependencies
	lastGateOnQubit := make(map[int]string)

	for i, gate := range circuit.Gates {
		node := &DAGNode{
			ID:    generateNodeID(gate.Type, gate.Target, i),
			Gate:  gate,
			Index: i,
		}

		for _, qubit := range gate.Qubits() {
			lastID, ok := lastGateOnQubit[qubit]
			if !ok || slices.Contains(node.Dependencies, lastID) {
				continue
			}
			node.Dependencies = append(node.Dependencies, lastID)
			node.Step = max(node.Step, dag.Nodes[lastID].Step+1)
		}

		dag.Nodes[node.ID] = node
		dag.order = append(dag.order, node.ID)
		for _, qubit := range gate.Qubits() {
			lastGateOnQubit[qubit] = node.ID
		}
	}

	return dag
}

// TopologicalSort returns nodes in topological order (respecting dependencies),
// ordered by step and then by source position.
func (dag *CircuitDAG) TopologicalSort() []*DAGNode {
	result := make([]*DAGNode, 0, len(dag.order))
	for _, id := range dag.order {
		result = append(result, dag.Nodes[id])
	}
	slices.SortStableFunc(result, func(a, b *DAGNode) int {
		return a.Step - b.Step
	})
	return result
}

// GetNodesAtStep returns all nodes at a specific step in source order.
func (dag *CircuitDAG) GetNodesAtStep(step int) []*DAGNode {
	var result []*DAGNode
	for _, id := range dag.order {
		if node := dag.Nodes[id]; node.Step == step {
			result = append(result, node)
		}
	}
	return result
}

// GetNodesOnQubit returns all nodes that reference a specific qubit.
func (dag *CircuitDAG) GetNodesOnQubit(qubit int) []*DAGNode {
	var result []*DAGNode
	for _, id := range dag.order {
		if node := dag.Nodes[id]; node.Gate.references(qubit) {
			result = append(result, node)
		}
	}
	return result
}

// GetNodeAt returns the node at the given step and qubit, or nil.
func (dag *CircuitDAG) GetNodeAt(step, qubit int) *DAGNode {
	for _, node := range dag.GetNodesAtStep(step) {
		if node.Gate.references(qubit) {
			return node
		}
	}
	return nil
}

// MaxStep returns the maximum step index in the DAG, or -1 when empty.
func (dag *CircuitDAG) MaxStep() int {
	maxStep := -1
	for _, node := range dag.Nodes {
		maxStep = max(maxStep, node.Step)
	}
	return maxStep
}

// Depth returns the number of moments needed to run the circuit.
func (dag *CircuitDAG) Depth() int {
	return dag.MaxStep() + 1
}

// Layers groups source gate indices by step.
func (dag *CircuitDAG) Layers() [][]int {
	layers := make([][]int, dag.Depth())
	for _, id := range dag.order {
		node := dag.Nodes[id]
		layers[node.Step] = append(layers[node.Step], node.Index)
	}
	return layers
}

// ToCircuit converts the DAG back to a circuit, gates ordered moment by moment.
// The result implements the same unitary as the source circuit.
func (dag *CircuitDAG) ToCircuit() Circuit {
	nodes := dag.TopologicalSort()
	gates := make([]Gate, len(nodes))
	for i, node := range nodes {
		gates[i] = node.Gate
	}
	return Circuit{Gates: gates}
}
