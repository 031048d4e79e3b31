package mongo

const (
	CollectionReservations         = "Reservations"
	CollectionReservationLocks     = "Reservation_locks"
	CollectionMembers              = "Members"
	CollectionLedgerEntries        = "Ledger_entries"
	CollectionProfessionals        = "Professionals"
	CollectionUsers                = "Users"
	CollectionNotifications        = "Notifications"
	CollectionNotificationReceipts = "Notification_receipts"
)
