package view

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_MissingElementIsNoOp(t *testing.T) {
	d := NewDocument()

	assert.False(t, d.SetText("nope", "1"))
	assert.False(t, d.ReplaceRows("nope", []Row{{Cells: []string{"a"}}}))
	d.AddClass("nope", UpdatedClass)
	d.SetOpacity("nope", 1)

	_, ok := d.Text("nope")
	assert.False(t, ok)
	assert.Empty(t, d.Snapshot().Elements)
}

func TestDocument_TextClassesOpacity(t *testing.T) {
	d := NewDocument()
	d.AddElement(HoursWorkedID)

	require.True(t, d.SetText(HoursWorkedID, "37.3"))
	text, ok := d.Text(HoursWorkedID)
	require.True(t, ok)
	assert.Equal(t, "37.3", text)

	d.AddClass(HoursWorkedID, UpdatedClass)
	assert.True(t, d.HasClass(HoursWorkedID, UpdatedClass))
	d.RemoveClass(HoursWorkedID, UpdatedClass)
	assert.False(t, d.HasClass(HoursWorkedID, UpdatedClass))

	assert.Equal(t, 1.0, d.Opacity(HoursWorkedID))
	d.SetOpacity(HoursWorkedID, 0.5)
	assert.Equal(t, 0.5, d.Opacity(HoursWorkedID))
}

func TestDocument_ReplaceRowsCopiesInput(t *testing.T) {
	d := NewDocument()
	d.AddElement(AttendanceTableBodyID)

	rows := []Row{{Cells: []string{"Mar 3"}}, {Cells: []string{"Mar 4"}}}
	require.True(t, d.ReplaceRows(AttendanceTableBodyID, rows))
	rows[0] = Row{Cells: []string{"changed"}}

	got := d.Rows(AttendanceTableBodyID)
	require.Len(t, got, 2)
	assert.Equal(t, "Mar 3", got[0].Cells[0])
}

func TestDocument_AlertsNewestFirstAndRemoval(t *testing.T) {
	d := NewDocument()
	d.PrependAlert(MainContainerID, Alert{ID: "a1", Kind: AlertSuccess, Message: "first"})
	d.PrependAlert(MainContainerID, Alert{ID: "a2", Kind: AlertDanger, Message: "second"})
	d.PrependAlert(RootID, Alert{ID: "a3", Kind: AlertDanger, Message: "root"})

	main := d.Alerts(MainContainerID)
	require.Len(t, main, 2)
	assert.Equal(t, "a2", main[0].ID)
	assert.Equal(t, "a1", main[1].ID)
	assert.Len(t, d.Alerts(RootID), 1)

	assert.True(t, d.RemoveAlert("a2"))
	assert.False(t, d.RemoveAlert("a2"))
	assert.Len(t, d.Alerts(MainContainerID), 1)
}

func TestDocument_ControlsAndClick(t *testing.T) {
	d := NewDocument()
	d.AddElement("card-hours", DashboardCardClass)
	d.AddElement("card-leave", DashboardCardClass)
	d.AddElement("plain")

	assert.Equal(t, []string{"card-hours", "card-leave"}, d.ElementsWithClass(DashboardCardClass))

	clicks := 0
	d.AttachControl("card-hours", Control{Name: "refresh", OnClick: func() { clicks++ }})

	assert.True(t, d.Click("card-hours", "refresh"))
	assert.False(t, d.Click("card-hours", "other"))
	assert.False(t, d.Click("card-leave", "refresh"))
	assert.Equal(t, 1, clicks)
}

func TestDocument_VisibilityObserversOnTransitionsOnly(t *testing.T) {
	d := NewDocument()
	var seen []bool
	d.OnVisibilityChange(func(hidden bool) { seen = append(seen, hidden) })

	d.SetHidden(false)
	d.SetHidden(true)
	d.SetHidden(true)
	d.SetHidden(false)

	assert.Equal(t, []bool{true, false}, seen)
	assert.False(t, d.Hidden())
}

func TestDocument_SubscribeReceivesMutations(t *testing.T) {
	d := NewDocument()
	d.AddElement(LeaveBalanceID)

	var mu sync.Mutex
	var kinds []MutationKind
	cancel := d.Subscribe(func(m Mutation) {
		mu.Lock()
		defer mu.Unlock()
		kinds = append(kinds, m.Kind)
	})

	d.SetText(LeaveBalanceID, "12")
	d.AddClass(LeaveBalanceID, UpdatedClass)
	d.RemoveClass(LeaveBalanceID, "never-added")
	d.PrependAlert(RootID, Alert{ID: "x"})
	cancel()
	d.SetText(LeaveBalanceID, "13")

	assert.Equal(t, []MutationKind{MutationText, MutationClass, MutationAlertAdded}, kinds)
}

func TestDocument_ListenerMayReadDocument(t *testing.T) {
	d := NewDocument()
	d.AddElement(PendingRequestsID)

	var observed string
	d.Subscribe(func(m Mutation) {
		observed, _ = d.Text(PendingRequestsID)
	})
	d.SetText(PendingRequestsID, "2")

	assert.Equal(t, "2", observed)
}

func TestNewEmployeeDashboard(t *testing.T) {
	d := NewEmployeeDashboard(DefaultCards, "tok-1")

	for _, id := range []string{
		HoursWorkedID, LeaveBalanceID, PendingRequestsID, AttendancePercentageID,
		SickLeaveRemainingID, PersonalLeaveRemainingID, AttendanceTableBodyID,
		UpdateIndicatorID, MainContainerID,
	} {
		assert.True(t, d.Has(id), id)
	}
	assert.Len(t, d.ElementsWithClass(DashboardCardClass), len(DefaultCards))
	assert.Equal(t, "tok-1", d.InputValue(CSRFInputName))
	assert.Equal(t, 0.5, d.Opacity(UpdateIndicatorID))

	snap := d.Snapshot()
	assert.False(t, snap.Hidden)
	assert.Equal(t, AttendancePercentageID, snap.Elements[0].ID)
}

func TestDocument_ConcurrentWritesDeliverInApplyOrder(t *testing.T) {
	d := NewDocument()
	d.AddElement(HoursWorkedID)

	var mu sync.Mutex
	var seqs []uint64
	var last string
	d.Subscribe(func(m Mutation) {
		mu.Lock()
		defer mu.Unlock()
		seqs = append(seqs, m.Seq)
		last = m.Value.(string)
	})

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d.SetText(HoursWorkedID, strconv.Itoa(i))
		}(i)
	}
	wg.Wait()

	require.Len(t, seqs, writers)
	for i, seq := range seqs {
		assert.Equal(t, uint64(i+1), seq)
	}
	text, _ := d.Text(HoursWorkedID)
	assert.Equal(t, text, last, "the last delivered value is the one on the page")
}

func TestDocument_ListenerReadsWhileOthersWrite(t *testing.T) {
	d := NewDocument()
	d.AddElement(LeaveBalanceID)
	d.Subscribe(func(m Mutation) {
		d.Snapshot()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d.SetText(LeaveBalanceID, strconv.Itoa(i))
			d.SetOpacity(LeaveBalanceID, 0.5)
		}(i)
	}
	wg.Wait()
}
