package core

// exported for the external tests
const (
	SlotBytes = slotBytes
	NodeBytes = nodeBytes
)

func (l *RecordList) Consistent() bool {
	return l.consistent()
}
