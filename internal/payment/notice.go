package payment

import "github.com/iliyamo/hotel-booking/internal/model"

func receiptTooLarge() model.Notice {
	return model.Notice{
		Level:       model.NoticeInfo,
		Title:       "Receipt too large to store locally",
		Description: "We saved only the file info. Please send the image via WhatsApp.",
	}
}

func receiptSubmitted() model.Notice {
	return model.Notice{Level: model.NoticeSuccess, Title: "Receipt submitted", Description: "Status: Pending verification"}
}

func paymentVerified() model.Notice {
	return model.Notice{Level: model.NoticeSuccess, Title: "Payment verified (demo)", Description: "Booking confirmed"}
}
