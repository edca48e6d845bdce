package users

import "time"

const VerificationTTL = verificationTTL

func SetNow(s *VerifyService, now func() time.Time) { s.now = now }
