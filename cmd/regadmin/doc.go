// Command regadmin lists, approves and rejects item name registrations on a
// running review gateway.
//
//	regadmin --initiator 0xEditor queue
//	regadmin --initiator 0xEditor assign --proposed-item-name Widget --domain shop.com --item-name Widget
//	regadmin --origin https://shop.com register --item-name Widget
package main
