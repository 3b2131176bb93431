package lyrics

import "fmt"

type IssueKind string

const (
	IssueUntimed       IssueKind = "untimed"
	IssueNonSequential IssueKind = "non_sequential"
	IssueOverlap       IssueKind = "overlap"
)

// Issue is a problem in timed lyrics that will not stop them from parsing but
// will show up on stage.
type Issue struct {
	Block   int
	Kind    IssueKind
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("block %d: %s: %s", i.Block+1, i.Kind, i.Message)
}

// Check reports blocks that can never be displayed, timestamp pairs that go
// backwards, and blocks whose window starts before the previous one ends.
func Check(p *ParsedLyrics) []Issue {
	if p == nil {
		return nil
	}

	var issues []Issue
	var prev *TimeRange
	for i := range p.Blocks {
		block := &p.Blocks[i]

		if len(block.Timestamps) < 2 {
			issues = append(issues, Issue{
				Block:   i,
				Kind:    IssueUntimed,
				Message: fmt.Sprintf("%d timestamp(s), at least 2 needed to be shown", len(block.Timestamps)),
			})
		}

		for j := 1; j < len(block.Timestamps); j++ {
			ts1, ts2 := block.Timestamps[j-1], block.Timestamps[j]
			if ts1.Position > ts2.Position || ts1.Time >= ts2.Time {
				issues = append(issues, Issue{
					Block: i,
					Kind:  IssueNonSequential,
					Message: fmt.Sprintf("%s at char %d is followed by %s at char %d",
						FormatTag(ts1.Time), ts1.Position, FormatTag(ts2.Time), ts2.Position),
				})
			}
		}

		r, ok := block.TimeRange()
		if !ok {
			continue
		}
		if prev != nil && r.Start < prev.End {
			issues = append(issues, Issue{
				Block:   i,
				Kind:    IssueOverlap,
				Message: fmt.Sprintf("starts at %s before the previous block ends at %s", FormatTag(r.Start), FormatTag(prev.End)),
			})
		}
		prev = &r
	}
	return issues
}
