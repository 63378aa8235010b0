package services

import (
	"context"
	"errors"
	"fmt"

	"hotel-reservation/models"
	"hotel-reservation/repository"
)

// Recipient is one resolved target of a reservation event.
type Recipient struct {
	Kind  models.RecipientKind
	ID    uint
	Name  string
	Email string
}

// Sender delivers one message to one recipient.
type Sender interface {
	Send(ctx context.Context, to Recipient, message string) error
}

// ResolveRecipients returns who hears about a reservation event: the customer,
// the acting staff member, every active staff member for broadcast events and
// every active admin. Each (kind, id) appears once, in that order.
func ResolveRecipients(res *models.Reservation, actor *models.Staff, broadcast bool, activeStaff []models.Staff) []Recipient {
	var out []Recipient
	seen := map[Recipient]bool{}
	add := func(r Recipient) {
		key := Recipient{Kind: r.Kind, ID: r.ID}
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, r)
	}
	staffRecipient := func(s *models.Staff) Recipient {
		return Recipient{Kind: models.RecipientStaff, ID: s.ID, Name: s.DisplayName(), Email: s.Email}
	}

	customer := Recipient{Kind: models.RecipientCustomer, ID: res.CustomerID}
	if res.Customer != nil {
		customer.Name = res.Customer.DisplayName()
		customer.Email = res.Customer.Email
	}
	add(customer)

	if actor != nil {
		add(staffRecipient(actor))
	}
	if broadcast {
		for i := range activeStaff {
			add(staffRecipient(&activeStaff[i]))
		}
	}
	for i := range activeStaff {
		if activeStaff[i].IsAdmin() {
			add(staffRecipient(&activeStaff[i]))
		}
	}
	return out
}

// Notifier fans a message out to every resolved recipient through every
// sender. Failures are collected; one failing delivery never stops the rest.
type Notifier struct {
	staff   repository.StaffStore
	senders []Sender
}

func NewNotifier(staff repository.StaffStore, senders ...Sender) *Notifier {
	return &Notifier{staff: staff, senders: senders}
}

func (n *Notifier) Notify(ctx context.Context, res *models.Reservation, actor *models.Staff, broadcast bool, message string) error {
	// Without the staff list the customer and the actor still hear about it.
	var errs []error
	active, err := n.staff.FindAllActive(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("load active staff: %w", err))
		active = nil
	}

	for _, to := range ResolveRecipients(res, actor, broadcast, active) {
		for _, s := range n.senders {
			if err := s.Send(ctx, to, message); err != nil {
				errs = append(errs, fmt.Errorf("%s #%d: %w", to.Kind, to.ID, err))
			}
		}
	}
	return errors.Join(errs...)
}

// StoreSender writes the message into the recipient's in-app inbox.
type StoreSender struct {
	store repository.NotificationStore
}

func NewStoreSender(store repository.NotificationStore) *StoreSender {
	return &StoreSender{store: store}
}

func (s *StoreSender) Send(ctx context.Context, to Recipient, message string) error {
	_, err := s.store.Create(ctx, to.Kind, to.ID, message)
	return err
}
