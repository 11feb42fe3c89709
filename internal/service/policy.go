package service

// AssertOwner 所有写操作共用的归属校验
func AssertOwner(ownerID, actorID string) error {
	if actorID == "" || ownerID != actorID {
		return ErrNotOwner
	}
	return nil
}
