package search

import "github.com/lexscope/docsearch/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string, filter ScopeFilter)
	AfterQueryEmbedding(dimensions int)
	AfterSemanticSearch(matches []*core.SemanticMatch)
	AfterLexicalSearch(matches []*core.LexicalMatch)
	AfterFusion(hits []FusedHit)
	FallbackTriggered()
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ ScopeFilter)               {}
func (n *noopMonitor) AfterQueryEmbedding(_ int)                   {}
func (n *noopMonitor) AfterSemanticSearch(_ []*core.SemanticMatch) {}
func (n *noopMonitor) AfterLexicalSearch(_ []*core.LexicalMatch)   {}
func (n *noopMonitor) AfterFusion(_ []FusedHit)                    {}
func (n *noopMonitor) FallbackTriggered()                          {}
func (n *noopMonitor) Finish(_ *Result)                            {}
