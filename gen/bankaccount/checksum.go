package bankaccount

// luhnChecksum computes the Luhn sum of a digit string modulo 10. Note that
// Finland uses this raw value as the control digit, not its ten's complement.
func luhnChecksum(digits string) int {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum % 10
}

// weightedMod11 computes the Norwegian MOD11 control digit: digits weighted
// 2,3,4,5,6,7 cycling from the right. Returns a value in 0..10 where 10 marks
// an account number that must be redrawn.
func weightedMod11(digits string) int {
	weights := [6]int{2, 3, 4, 5, 6, 7}
	sum := 0
	for i := 0; i < len(digits); i++ {
		d := int(digits[len(digits)-1-i] - '0')
		sum += d * weights[i%6]
	}
	mod := 11 - sum%11
	if mod == 11 {
		return 0
	}
	return mod
}

// cinOddValue maps a character value to its contribution at odd positions of
// the Italian CIN computation. Entries beyond index 9 cover letter values,
// unused here since inputs are numeric.
var cinOddValue = [29]int{
	1, 0, 5, 7, 9, 13, 15, 17, 19, 21, 2, 4, 18, 20, 11,
	3, 6, 8, 12, 14, 16, 10, 22, 25, 24, 23, 27, 28, 26,
}

// cinControlLetter computes the Italian CIN over a digit string: even
// positions (0-indexed) contribute their numeric value, odd positions the
// table value, summed modulo 26 and mapped to A..Z.
func cinControlLetter(code string) byte {
	total := 0
	for i := 0; i < len(code); i++ {
		d := int(code[i] - '0')
		if i%2 == 0 {
			total += d
		} else {
			total += cinOddValue[d]
		}
	}
	return byte('A' + total%26)
}
