package pricing

import (
	"fmt"

	"github.com/pvollan/rateslib/derivative"
)

// PresentValueSABRSensitivity computes present value derivatives with
// respect to the SABR parameters. Instruments without smile exposure
// contribute nothing.
func PresentValueSABRSensitivity(instr derivative.Instrument, market Market) (SABRSensitivity, error) {
	out := NewSABRSensitivity()
	if err := collectSABRSensitivity(instr, market, out); err != nil {
		return SABRSensitivity{}, fmt.Errorf("PresentValueSABRSensitivity: %w", err)
	}
	return out, nil
}

func collectSABRSensitivity(instr derivative.Instrument, market Market, out SABRSensitivity) error {
	switch d := instr.(type) {
	case derivative.CMSCoupon:
		s, err := DefaultCMSReplication().PresentValueSABRSensitivity(
			derivative.CMSCapFloor{Coupon: d, Strike: 0, IsCap: true}, market)
		if err != nil {
			return err
		}
		out.AddAll(s)
	case derivative.CMSCapFloor:
		s, err := DefaultCMSReplication().PresentValueSABRSensitivity(d, market)
		if err != nil {
			return err
		}
		out.AddAll(s)
	case derivative.Annuity:
		for _, p := range d.Payments {
			if err := collectSABRSensitivity(p, market, out); err != nil {
				return err
			}
		}
	case derivative.FixedPayment, derivative.FixedCoupon, derivative.IborCoupon,
		derivative.Cash, derivative.FRA, derivative.Bill, derivative.BillTransaction,
		derivative.FixedAnnuity, derivative.IborAnnuity, derivative.Bond,
		derivative.BondTransaction, derivative.FixedIborSwap:
		// Linear in rates; no smile exposure.
	default:
		return fmt.Errorf("%T: %w", instr, ErrUnsupportedInstrument)
	}
	return nil
}
