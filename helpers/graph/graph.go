package graph

import (
	"fmt"
	"strings"

	"github.com/awalterschulze/gographviz"
)

// Node is a displayable tree describing a dataflow graph or plan. Children
// point at the inputs of the node.
type Node struct {
	Name     string
	Fields   []Field
	Children []Child
}

type Field struct {
	Name, Value string
}

type Child struct {
	Name string
	Node *Node
}

func NewNode(name string) *Node {
	return &Node{Name: name}
}

func (n *Node) AddField(name, value string) {
	n.Fields = append(n.Fields, Field{Name: name, Value: value})
}

func (n *Node) AddChild(name string, node *Node) {
	n.Children = append(n.Children, Child{Name: name, Node: node})
}

type Visualizer interface {
	Visualize() *Node
}

// Show renders the node tree as a graphviz record graph, laid out
// left-to-right, data flowing towards the root.
func Show(node *Node) (*gographviz.Graph, error) {
	graph := gographviz.NewGraph()
	graph.Directed = true
	if err := graph.AddAttr("", "rankdir", "LR"); err != nil {
		return nil, fmt.Errorf("couldn't set graph direction: %w", err)
	}
	builder := &graphBuilder{
		graph:        graph,
		nameCounters: map[string]int{},
	}
	if _, err := builder.addNode(node); err != nil {
		return nil, err
	}
	return graph, nil
}

type graphBuilder struct {
	graph        *gographviz.Graph
	nameCounters map[string]int
}

func (gb *graphBuilder) nextID(name string) string {
	count := gb.nameCounters[name]
	gb.nameCounters[name]++
	return fmt.Sprintf("%s_%d", strings.Replace(name, " ", "_", -1), count)
}

func (gb *graphBuilder) addNode(node *Node) (string, error) {
	parts := []string{fmt.Sprintf("<f0> %s", node.Name)}
	for _, field := range node.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field.Name, field.Value))
	}

	id := gb.nextID(node.Name)
	err := gb.graph.AddNode("", id, map[string]string{
		"shape": "record",
		"label": fmt.Sprintf("\"{%s}\"", strings.Join(parts, "|")),
	})
	if err != nil {
		return "", fmt.Errorf("couldn't add node '%s': %w", node.Name, err)
	}

	for _, child := range node.Children {
		childID, err := gb.addNode(child.Node)
		if err != nil {
			return "", err
		}
		if err := gb.graph.AddEdge(childID, id, true, map[string]string{"label": child.Name}); err != nil {
			return "", fmt.Errorf("couldn't add edge '%s' -> '%s': %w", childID, id, err)
		}
	}
	return id, nil
}
