package metrics

// IncrementBoardCreated increments the board creation counter
func (m *Metrics) IncrementBoardCreated() {
	m.safeExecute("IncrementBoardCreated", func() {
		m.BoardCreatedTotal.Inc()
	})
}

// IncrementTaskCreated increments the task creation counter
func (m *Metrics) IncrementTaskCreated() {
	m.safeExecute("IncrementTaskCreated", func() {
		m.TaskCreatedTotal.Inc()
	})
}

// IncrementTaskMoved increments the task move counter
func (m *Metrics) IncrementTaskMoved() {
	m.safeExecute("IncrementTaskMoved", func() {
		m.TaskMovedTotal.Inc()
	})
}

// IncrementColumnsReordered increments the column reorder counter
func (m *Metrics) IncrementColumnsReordered() {
	m.safeExecute("IncrementColumnsReordered", func() {
		m.ColumnsReorderedTotal.Inc()
	})
}

// IncrementInvitationCreated increments the invitations sent counter
func (m *Metrics) IncrementInvitationCreated() {
	m.safeExecute("IncrementInvitationCreated", func() {
		m.InvitationsCreatedTotal.Inc()
	})
}

// IncrementEventPublished increments the published event counter for an event type
func (m *Metrics) IncrementEventPublished(event string) {
	m.safeExecute("IncrementEventPublished", func() {
		m.EventsPublishedTotal.WithLabelValues(event).Inc()
	})
}

// SetWSConnections sets the active websocket connection gauge
func (m *Metrics) SetWSConnections(count int) {
	m.safeExecute("SetWSConnections", func() {
		m.WSConnectionsActive.Set(float64(count))
	})
}

// SetBoardsTotal sets the total boards gauge
func (m *Metrics) SetBoardsTotal(count int64) {
	m.safeExecute("SetBoardsTotal", func() {
		m.BoardsTotal.Set(float64(count))
	})
}

// SetTasksTotal sets the total tasks gauge
func (m *Metrics) SetTasksTotal(count int64) {
	m.safeExecute("SetTasksTotal", func() {
		m.TasksTotal.Set(float64(count))
	})
}
