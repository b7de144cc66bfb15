package domain

import "time"

// AdminSenderLabel is the sender stamped on messages posted by admins.
const AdminSenderLabel = "Admin"

// Comment is one message in a ticket's append-only discussion thread.
// There is no edit or delete; ordering follows the serial ID.
type Comment struct {
	ID        int64
	TicketID  int64
	Sender    string
	Content   string
	CreatedAt time.Time
}
