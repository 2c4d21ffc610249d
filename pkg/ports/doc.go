/*
Package ports defines the driven ports (interfaces) of the dialogs runtime.

These interfaces decouple the dialog stack manager and the bot from external
implementations, allowing them to work with various storage backends, lock
services, and channels.

# Key Interfaces

  - StateStore: Responsible for persisting and loading ConversationState.
  - DistributedLocker: Provides distributed locking for concurrent access to one conversation.
  - ActivitySender: Delivers outbound activities to a channel.
*/
package ports
